package docfx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeRenderer returns canned PDF bytes without a browser.
type fakeRenderer struct {
	mu     sync.Mutex
	urls   []string
	closed bool
	render func(pageURL string) ([]byte, error)
}

// Compile-time interface check.
var _ pageRenderer = (*fakeRenderer)(nil)

func (f *fakeRenderer) RenderURL(_ context.Context, pageURL string) ([]byte, error) {
	f.mu.Lock()
	f.urls = append(f.urls, pageURL)
	f.mu.Unlock()
	return f.render(pageURL)
}

func (f *fakeRenderer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buildSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTOC(t, dir, "toc.json",
		`{"enablePdf": true, "name": "Docs", "items": [`+
			`{"name": "One", "href": "one.html"}, `+
			`{"name": "Two", "href": "two.html"}]}`)
	for _, page := range []string{"one.html", "two.html"} {
		if err := os.WriteFile(filepath.Join(dir, page), []byte("<html></html>"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestServiceBuildPDFs(t *testing.T) {
	t.Parallel()

	dir := buildSite(t)
	renderer := &fakeRenderer{
		render: func(string) ([]byte, error) { return []byte(pageInput), nil },
	}
	svc := New(
		WithRenderer(renderer),
		WithLogger(discardLogger()),
		WithVersion("1.2.3"),
	)

	if err := svc.BuildPDFs(context.Background(), dir); err != nil {
		t.Fatalf("BuildPDFs() error = %v", err)
	}

	out, err := os.ReadFile(filepath.Join(dir, "toc.pdf"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.HasPrefix(string(out), "%PDF-1.4\n") {
		t.Error("output missing PDF header")
	}
	if !strings.HasSuffix(string(out), "%%EOF") {
		t.Error("output missing trailing EOF marker")
	}
	if !strings.Contains(string(out), "/Creator (docfx 1.2.3)") {
		t.Error("output /Info missing version")
	}
	if !strings.Contains(string(out), "/URLD-0") || !strings.Contains(string(out), "/URLD-1") {
		t.Error("output missing named destinations for both pages")
	}

	if len(renderer.urls) != 2 {
		t.Errorf("rendered %d URLs, want 2", len(renderer.urls))
	}
	if !renderer.closed {
		t.Error("renderer not closed")
	}
}

func TestServiceBuildPDFsNoEligibleTOCs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTOC(t, dir, "toc.json", `{"name": "Docs"}`)

	renderer := &fakeRenderer{
		render: func(string) ([]byte, error) { return []byte(pageInput), nil },
	}
	svc := New(WithRenderer(renderer), WithLogger(discardLogger()))

	if err := svc.BuildPDFs(context.Background(), dir); err != nil {
		t.Fatalf("BuildPDFs() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "toc.pdf")); !errors.Is(err, os.ErrNotExist) {
		t.Error("toc.pdf written for a TOC that opted out")
	}
	if len(renderer.urls) != 0 {
		t.Errorf("rendered %d URLs, want 0", len(renderer.urls))
	}
}

func TestServiceBuildPDFsRenderFailure(t *testing.T) {
	t.Parallel()

	dir := buildSite(t)
	renderer := &fakeRenderer{
		render: func(pageURL string) ([]byte, error) {
			if strings.Contains(pageURL, "two.html") {
				return nil, fmt.Errorf("%w: %s: status 404", ErrRenderFailed, pageURL)
			}
			return []byte(pageInput), nil
		},
	}
	svc := New(WithRenderer(renderer), WithLogger(discardLogger()))

	// One failed page degrades its bookmark; the build still succeeds.
	if err := svc.BuildPDFs(context.Background(), dir); err != nil {
		t.Fatalf("BuildPDFs() error = %v", err)
	}

	out, err := os.ReadFile(filepath.Join(dir, "toc.pdf"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.HasSuffix(string(out), "%%EOF") {
		t.Error("output missing trailing EOF marker")
	}
	if !strings.Contains(string(out), "/URLD-0") {
		t.Error("output missing destination for the rendered page")
	}
	if strings.Contains(string(out), "/Dest /URLD-1") {
		t.Error("failed page still has an outline destination")
	}
}

func TestServiceBuildPDFsBrowserFailure(t *testing.T) {
	t.Parallel()

	dir := buildSite(t)
	wantErr := fmt.Errorf("%w: connection refused", ErrBrowserConnect)
	renderer := &fakeRenderer{
		render: func(string) ([]byte, error) { return nil, wantErr },
	}
	svc := New(WithRenderer(renderer), WithLogger(discardLogger()))

	if err := svc.BuildPDFs(context.Background(), dir); !errors.Is(err, ErrBrowserConnect) {
		t.Fatalf("BuildPDFs() error = %v, want ErrBrowserConnect", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "toc.pdf")); !errors.Is(err, os.ErrNotExist) {
		t.Error("toc.pdf written after an aborted build")
	}
}

func TestServiceOptions(t *testing.T) {
	t.Parallel()

	svc := New(WithWorkers(3), WithTimeout(30*time.Second))
	if svc.cfg.Workers != 3 {
		t.Errorf("Workers = %d, want 3", svc.cfg.Workers)
	}
	if svc.cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", svc.cfg.Timeout)
	}
}

func TestServiceBuildPDFsInvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Format = "tabloid"
	svc := New(WithConfig(cfg), WithLogger(discardLogger()))

	if err := svc.BuildPDFs(context.Background(), t.TempDir()); !errors.Is(err, ErrInvalidPaperSize) {
		t.Errorf("BuildPDFs() error = %v, want ErrInvalidPaperSize", err)
	}
}

func TestServiceBuildPDFsSharedPageRenderedOnce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeTOC(t, dir, "a/toc.json", `{"enablePdf": true, "name": "A", "items": [{"name": "Shared", "href": "../shared.html"}]}`)
	writeTOC(t, dir, "b/toc.json", `{"enablePdf": true, "name": "B", "items": [{"name": "Shared", "href": "../shared.html"}]}`)
	if err := os.WriteFile(filepath.Join(dir, "shared.html"), []byte("<html></html>"), 0o600); err != nil {
		t.Fatal(err)
	}

	renderer := &fakeRenderer{
		render: func(string) ([]byte, error) { return []byte(pageInput), nil },
	}
	svc := New(WithRenderer(renderer), WithLogger(discardLogger()))

	if err := svc.BuildPDFs(context.Background(), dir); err != nil {
		t.Fatalf("BuildPDFs() error = %v", err)
	}

	if len(renderer.urls) != 1 {
		t.Errorf("rendered %d URLs, want 1 (shared page renders once)", len(renderer.urls))
	}
	for _, sub := range []string{"a", "b"} {
		if _, err := os.Stat(filepath.Join(dir, sub, "toc.pdf")); err != nil {
			t.Errorf("missing output for %s: %v", sub, err)
		}
	}
}
