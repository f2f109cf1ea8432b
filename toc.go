package docfx

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/StingyJack/docfx/internal/yamlutil"
)

// tocFileName is the outline file the orchestrator discovers.
const tocFileName = "toc.json"

// maxOutlineNodes caps the descendant count of any outline node during id
// assignment. On a cyclic tree built programmatically (a decoded toc.json
// can never contain one) id assignment instead stops with ErrTooManyObjects
// once ids reach the reserved range; walk has no such guard.
const maxOutlineNodes = 100000

// OutlineNode is one entry of a TOC outline tree. Name is the display
// title, Href an optional URI reference resolved against the owning TOC's
// path, Items the ordered children. A node with no href is a heading; it
// still becomes a PDF bookmark, just without a destination.
type OutlineNode struct {
	EnablePDF bool           `yaml:"enablePdf"`
	Name      string         `yaml:"name"`
	Href      string         `yaml:"href"`
	Items     []*OutlineNode `yaml:"items"`

	// Assigned during merge.
	pdfID int
	count int
}

// walk visits n and its descendants in pre-order.
func (n *OutlineNode) walk(fn func(*OutlineNode)) {
	fn(n)
	for _, child := range n.Items {
		child.walk(fn)
	}
}

// assignIDs gives each node a PDF object id in pre-order starting at next,
// and fills in each node's descendant count bottom-up. It returns the first
// unassigned id.
func (n *OutlineNode) assignIDs(next int) (int, error) {
	if next >= reservedIDBase {
		return 0, ErrTooManyObjects
	}
	n.pdfID = next
	next++

	n.count = 0
	for _, child := range n.Items {
		var err error
		next, err = child.assignIDs(next)
		if err != nil {
			return 0, err
		}
		n.count += child.count + 1
	}
	if n.count >= maxOutlineNodes {
		return 0, fmt.Errorf("%w: %d nodes", ErrOutlineTooLarge, n.count)
	}
	return next, nil
}

// tocFile is one discovered toc.json together with its outline tree.
type tocFile struct {
	// Path is the toc.json location relative to the discovery root, with
	// forward slashes. Dir is its containing directory, "" at the root.
	Path string
	Dir  string
	Root *OutlineNode
}

// OutputPath returns the merged PDF's location: a sibling of the toc.json.
func (t tocFile) OutputPath(rootDir string) string {
	name := strings.TrimSuffix(tocFileName, filepath.Ext(tocFileName)) + ".pdf"
	return filepath.Join(rootDir, filepath.FromSlash(t.Dir), name)
}

// discoverTOCs finds every toc.json under rootDir whose root node has
// enablePdf set. TOCs that fail to parse are reported; TOCs that opt out
// are silently skipped.
func discoverTOCs(rootDir string) ([]tocFile, error) {
	var tocs []tocFile
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() || d.Name() != tocFileName {
			return nil
		}

		root, err := parseTOC(path)
		if err != nil {
			return err
		}
		if !root.EnablePDF {
			return nil
		}

		rel, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		dir := ""
		if idx := strings.LastIndexByte(rel, '/'); idx >= 0 {
			dir = rel[:idx]
		}
		tocs = append(tocs, tocFile{Path: rel, Dir: dir, Root: root})
		return nil
	})
	return tocs, err
}

// parseTOC decodes one toc.json outline tree. JSON is a YAML subset, so the
// same decoder that reads the config handles it; unknown keys are common in
// TOC files and are ignored.
func parseTOC(path string) (*OutlineNode, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from directory discovery under the user's root
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var root OutlineNode
	if err := yamlutil.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTOCParse, path, err)
	}
	return &root, nil
}
