package docfx

import (
	"fmt"
	"io"
)

// Reserved object ids for the synthesized trailer skeleton. Keeping these
// fixed and far above any input-derived id lets every emitted input object
// reference the page tree and structure tree roots before they exist.
const (
	reservedIDBase   = 1000000
	infoID           = 1000000
	catalogID        = 1000001
	pagesRootID      = 1000002
	structTreeRootID = 1000003
	parentTreeID     = 1000004
	destsID          = 1000005
)

var pdfHeader = []byte("%PDF-1.4\n%\xD3\xEB\xE9\xE1\n")

// merger splices Chrome-emitted PDF files into one document. Input objects
// stream through a scanner and rewriter into the output while the merger
// accumulates the cross-reference table, page list, structure-tree state and
// named-destination targets needed to synthesize the trailer.
//
// A merger instance is single-writer: one merge, one goroutine.
type merger struct {
	w *pdfWriter

	// xrefs maps every absorbed input object id and outline object id to
	// its byte offset; the six fixed-id objects are tracked by the trailer
	// writer instead. Skipped input objects keep a slot so ids stay dense.
	xrefs map[int]int64

	// baseID is the count of input objects already absorbed; added to an
	// input's local ids to produce unified ids.
	baseID int

	// inputObjects tracks the highest id seen in the current input.
	inputObjects int

	pages       []int // unified page object ids, in document order
	structElems []int // unified /StructElem /S /Document ids, one per input

	// structParents holds per-page /StructParents targets indexed by page
	// position; zero marks a page absent from its input's ParentTree.
	// structParent holds per-annotation /StructParent targets in index
	// order.
	structParents []int
	structParent  []int

	baseStructParentsNum int
	baseStructParentNum  int

	// urlIDs assigns a dense id to each internal page URL in the outline,
	// in pre-order; it names the /URLD-<n> destinations. urlDests maps each
	// URL to the unified id of the first page emitted from its PDF.
	urlIDs   map[string]int
	urlDests map[string]int
}

func newMerger(out io.Writer) *merger {
	m := &merger{
		w:        newPDFWriter(out),
		xrefs:    make(map[int]int64),
		urlIDs:   make(map[string]int),
		urlDests: make(map[string]int),
	}
	m.w.WriteBytes(pdfHeader)
	return m
}

// assignURLID allocates a stable destination id for an internal page URL.
// Repeated URLs share one id.
func (m *merger) assignURLID(url string) int {
	if id, ok := m.urlIDs[url]; ok {
		return id
	}
	id := len(m.urlIDs)
	m.urlIDs[url] = id
	return id
}

// AddPDF absorbs one input PDF read from r, attributing its pages to url.
// Objects are renumbered into the unified id space and written through;
// catalog, info and structure bookkeeping objects are swallowed and folded
// into the merger state instead.
func (m *merger) AddPDF(url string, r io.Reader) error {
	firstPage := len(m.pages)
	annotations := len(m.structParent)
	m.inputObjects = 0

	sc := newObjectScanner(r)
	for {
		id, body, err := sc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("merging %s: %w", url, err)
		}
		if err := m.writeObject(id, body); err != nil {
			return fmt.Errorf("merging %s: %w", url, err)
		}
	}

	m.baseID += m.inputObjects
	m.baseStructParentNum += len(m.structParent) - annotations

	// Blank pages have no ParentTree entry; give them a positional slot so
	// the parent-tree index stays aligned with /Pages /Kids.
	for len(m.structParents) < len(m.pages) {
		m.structParents = append(m.structParents, 0)
	}
	m.baseStructParentsNum = len(m.structParents)

	if len(m.pages) > firstPage {
		m.urlDests[url] = m.pages[firstPage]
	}
	return m.w.Err()
}
