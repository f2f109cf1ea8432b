package docfx

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTOC(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestDiscoverTOCs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTOC(t, dir, "toc.json", `{"enablePdf": true, "name": "Root", "items": [{"name": "A", "href": "a.html"}]}`)
	writeTOC(t, dir, "guide/toc.json", `{"enablePdf": true, "name": "Guide"}`)
	writeTOC(t, dir, "api/toc.json", `{"name": "API"}`)
	writeTOC(t, dir, "guide/other.json", `{"enablePdf": true}`)

	tocs, err := discoverTOCs(dir)
	if err != nil {
		t.Fatalf("discoverTOCs() error = %v", err)
	}
	if len(tocs) != 2 {
		t.Fatalf("discoverTOCs() found %d TOCs, want 2", len(tocs))
	}

	byPath := map[string]tocFile{}
	for _, toc := range tocs {
		byPath[toc.Path] = toc
	}

	root, ok := byPath["toc.json"]
	if !ok {
		t.Fatal("root toc.json not discovered")
	}
	if root.Dir != "" {
		t.Errorf("root Dir = %q, want empty", root.Dir)
	}
	if len(root.Root.Items) != 1 || root.Root.Items[0].Href != "a.html" {
		t.Errorf("root outline not parsed: %+v", root.Root)
	}

	guide, ok := byPath["guide/toc.json"]
	if !ok {
		t.Fatal("guide/toc.json not discovered")
	}
	if guide.Dir != "guide" {
		t.Errorf("guide Dir = %q, want %q", guide.Dir, "guide")
	}
}

func TestDiscoverTOCsParseError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTOC(t, dir, "toc.json", `{"enablePdf": tru`)

	if _, err := discoverTOCs(dir); !errors.Is(err, ErrTOCParse) {
		t.Errorf("discoverTOCs() error = %v, want ErrTOCParse", err)
	}
}

func TestTOCFileOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dir  string
		want string
	}{
		{name: "root TOC", dir: "", want: filepath.Join("site", "toc.pdf")},
		{name: "nested TOC", dir: "guide/advanced", want: filepath.Join("site", "guide", "advanced", "toc.pdf")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			toc := tocFile{Dir: tt.dir}
			if got := toc.OutputPath("site"); got != tt.want {
				t.Errorf("OutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOutlineNodeAssignIDs(t *testing.T) {
	t.Parallel()

	root := &OutlineNode{
		Name: "Root",
		Items: []*OutlineNode{
			{Name: "A", Items: []*OutlineNode{{Name: "A1"}}},
			{Name: "B"},
		},
	}

	next, err := root.assignIDs(10)
	if err != nil {
		t.Fatalf("assignIDs() error = %v", err)
	}
	if next != 14 {
		t.Errorf("assignIDs() next = %d, want 14", next)
	}

	// Pre-order ids.
	if root.pdfID != 10 || root.Items[0].pdfID != 11 || root.Items[0].Items[0].pdfID != 12 || root.Items[1].pdfID != 13 {
		t.Errorf("ids = %d %d %d %d, want 10 11 12 13",
			root.pdfID, root.Items[0].pdfID, root.Items[0].Items[0].pdfID, root.Items[1].pdfID)
	}

	// Descendant counts, bottom-up.
	if root.count != 3 {
		t.Errorf("root.count = %d, want 3", root.count)
	}
	if root.Items[0].count != 1 {
		t.Errorf("child count = %d, want 1", root.Items[0].count)
	}
	if root.Items[1].count != 0 {
		t.Errorf("leaf count = %d, want 0", root.Items[1].count)
	}
}

func TestOutlineNodeAssignIDsOverflow(t *testing.T) {
	t.Parallel()

	root := &OutlineNode{Name: "Root"}
	if _, err := root.assignIDs(reservedIDBase); !errors.Is(err, ErrTooManyObjects) {
		t.Errorf("assignIDs() error = %v, want ErrTooManyObjects", err)
	}
}

func TestOutlineNodeWalkOrder(t *testing.T) {
	t.Parallel()

	root := &OutlineNode{
		Name: "r",
		Items: []*OutlineNode{
			{Name: "a", Items: []*OutlineNode{{Name: "a1"}, {Name: "a2"}}},
			{Name: "b"},
		},
	}

	var got []string
	root.walk(func(n *OutlineNode) { got = append(got, n.Name) })

	want := []string{"r", "a", "a1", "a2", "b"}
	if len(got) != len(want) {
		t.Fatalf("walk visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("walk visited %v, want %v", got, want)
		}
	}
}
