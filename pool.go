package docfx

import (
	"errors"
	"runtime"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Pool sizing constants.
const (
	// MinWorkers ensures at least one render worker is available.
	MinWorkers = 1

	// MaxWorkers caps parallel browser pages to limit memory.
	MaxWorkers = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// pagePool is a take-or-create bag of reusable browser pages. Rendering a
// page to PDF serializes on the browser tab, so parallel renders each take
// their own tab and return it afterwards. The bag's capacity bounds how
// many idle tabs are retained, not how many can exist.
type pagePool struct {
	browser *rod.Browser
	bag     chan *rod.Page
	mu      sync.Mutex
	pages   []*rod.Page
	closed  bool
}

func newPagePool(browser *rod.Browser, n int) *pagePool {
	if n < 1 {
		n = 1
	}
	return &pagePool{
		browser: browser,
		bag:     make(chan *rod.Page, n),
	}
}

// Acquire takes an idle page from the bag or creates a fresh one.
func (p *pagePool) Acquire() (*rod.Page, error) {
	select {
	case page := <-p.bag:
		return page, nil
	default:
	}

	page, err := p.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, errors.Join(ErrPageCreate, err)
	}

	p.mu.Lock()
	p.pages = append(p.pages, page)
	p.mu.Unlock()
	return page, nil
}

// Release returns a page to the bag. Pages beyond the bag's capacity are
// closed instead of retained.
func (p *pagePool) Release(page *rod.Page) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	select {
	case p.bag <- page:
	default:
		_ = page.Close()
	}
}

// Close closes every page ever created by the pool. Returns an aggregated
// error if multiple pages fail to close.
func (p *pagePool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	pages := p.pages
	p.mu.Unlock()

	var errs []error
	for _, page := range pages {
		if err := page.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ResolveWorkers determines the render parallelism.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs in the CLI for containers.
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
