package docfx

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// pageRenderer abstracts URL to PDF rendering to enable testing without a
// browser.
type pageRenderer interface {
	RenderURL(ctx context.Context, pageURL string) ([]byte, error)
	Close() error
}

// Compile-time interface check
var _ pageRenderer = (*rodRenderer)(nil)

// rodRenderer renders pages to PDF using headless Chrome via go-rod.
// Rod automatically downloads Chromium on first run if not found. Browser
// pages are pooled and reused across renders.
type rodRenderer struct {
	opts    *proto.PagePrintToPDF
	timeout time.Duration
	workers int

	mu      sync.Mutex
	browser *rod.Browser
	pool    *pagePool
}

func newRodRenderer(cfg *Config, workers int) *rodRenderer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &rodRenderer{
		opts:    buildPrintOptions(cfg),
		timeout: timeout,
		workers: workers,
	}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodRenderer) ensureBrowser() (*pagePool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser != nil {
		return r.pool, nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = browser
	r.pool = newPagePool(browser, r.workers)
	return r.pool, nil
}

// Close releases all pages and the browser.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser == nil {
		return nil
	}

	poolErr := r.pool.Close()
	browserErr := r.browser.Close()
	r.browser = nil
	r.pool = nil
	if poolErr != nil {
		return poolErr
	}
	return browserErr
}

// RenderURL navigates a pooled browser page to pageURL and prints it to
// PDF bytes. A navigation that yields no document response, or a non-OK
// status, reports ErrRenderFailed.
func (r *rodRenderer) RenderURL(ctx context.Context, pageURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pool, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := pool.Acquire()
	if err != nil {
		return nil, err
	}
	defer pool.Release(page)

	bounded := page.Context(ctx).Timeout(r.timeout)

	var status int
	var gotResponse bool
	wait := bounded.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = e.Response.Status
		gotResponse = true
		return true
	})

	if err := bounded.Navigate(pageURL); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPageLoad, pageURL, err)
	}
	wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !gotResponse || status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: %s: status %d", ErrRenderFailed, pageURL, status)
	}

	if err := bounded.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPageLoad, pageURL, err)
	}

	stream, err := bounded.PDF(r.opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, pageURL, err)
	}

	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrRenderFailed, err)
	}
	return pdf, nil
}

// buildPrintOptions constructs Chrome print options from the config.
func buildPrintOptions(cfg *Config) *proto.PagePrintToPDF {
	width, height := cfg.paperSize()

	margin := cfg.Margin
	if margin == nil {
		margin = &Margin{DefaultMargin, DefaultMargin, DefaultMargin, DefaultMargin}
	}

	opts := &proto.PagePrintToPDF{
		Landscape:       cfg.Landscape,
		PaperWidth:      floatPtr(width),
		PaperHeight:     floatPtr(height),
		MarginTop:       floatPtr(margin.Top),
		MarginBottom:    floatPtr(margin.Bottom),
		MarginLeft:      floatPtr(margin.Left),
		MarginRight:     floatPtr(margin.Right),
		PrintBackground: cfg.PrintBackground,
	}

	if cfg.DisplayHeaderFooter {
		opts.DisplayHeaderFooter = true
		opts.HeaderTemplate = cfg.HeaderTemplate
		opts.FooterTemplate = cfg.FooterTemplate
	}
	return opts
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
