package docfx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Service orchestrates the PDF build: TOC discovery, parallel page
// rendering and per-TOC merging.
type Service struct {
	cfg      *Config
	log      *slog.Logger
	renderer pageRenderer
	version  string
}

// Option customizes a Service.
type Option func(*Service)

// WithConfig sets the build configuration.
func WithConfig(cfg *Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

// WithLogger sets the structured logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithVersion sets the tool version recorded in the output's /Info.
func WithVersion(version string) Option {
	return func(s *Service) { s.version = version }
}

// WithWorkers overrides the configured render/merge parallelism.
func WithWorkers(n int) Option {
	return func(s *Service) { s.cfg.Workers = n }
}

// WithTimeout overrides the configured per-page render timeout.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.cfg.Timeout = d }
}

// WithRenderer injects a page renderer (e.g. by tests).
func WithRenderer(r pageRenderer) Option {
	return func(s *Service) { s.renderer = r }
}

// New creates a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		cfg:     DefaultConfig(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// BuildPDFs discovers every eligible toc.json under dir, renders each
// referenced page once, and writes one merged PDF next to each TOC.
//
// Finding no eligible TOC is a warning, not an error. A failed page render
// leaves its bookmarks without destinations; a failed merge abandons that
// TOC's output but the remaining TOCs continue.
func (s *Service) BuildPDFs(ctx context.Context, dir string) error {
	if err := s.cfg.Validate(); err != nil {
		return err
	}

	tocs, err := discoverTOCs(dir)
	if err != nil {
		return err
	}
	if len(tocs) == 0 {
		s.log.Warn("no toc.json with enablePdf found", "dir", dir)
		return nil
	}

	server, err := newStaticServer(dir)
	if err != nil {
		return err
	}
	defer func() { _ = server.Close() }()

	workers := ResolveWorkers(s.cfg.Workers)
	renderer := s.renderer
	if renderer == nil {
		renderer = newRodRenderer(s.cfg, workers)
	}
	defer func() { _ = renderer.Close() }()

	resolvers := make([]*urlResolver, len(tocs))
	for i, toc := range tocs {
		r, err := newURLResolver(server.URL(), s.cfg.BaseURL, toc.Dir)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", toc.Path, err)
		}
		resolvers[i] = r
	}

	renders, err := s.renderPages(ctx, renderer, tocs, resolvers, workers)
	if err != nil {
		return err
	}

	var (
		mu      sync.Mutex
		failed  []error
		mergeWG errgroup.Group
	)
	mergeWG.SetLimit(workers)
	for i, toc := range tocs {
		mergeWG.Go(func() error {
			if err := s.mergeTOC(ctx, dir, toc, resolvers[i], renders); err != nil {
				s.log.Error("merge failed", "toc", toc.Path, "error", err)
				mu.Lock()
				failed = append(failed, fmt.Errorf("%s: %w", toc.Path, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = mergeWG.Wait()

	return errors.Join(failed...)
}

// renderPages renders every unique internal page URL referenced by any TOC,
// once, in parallel. A failed render records nil bytes; browser-level
// failures abort the build.
func (s *Service) renderPages(ctx context.Context, renderer pageRenderer, tocs []tocFile, resolvers []*urlResolver, workers int) (map[string][]byte, error) {
	var urls []string
	seen := make(map[string]bool)
	for i, toc := range tocs {
		toc.Root.walk(func(n *OutlineNode) {
			parsed := resolvers[i].Resolve(n.Href)
			if parsed.PageURL == "" || seen[parsed.PageURL] {
				return
			}
			seen[parsed.PageURL] = true
			urls = append(urls, parsed.PageURL)
		})
	}
	s.log.Info("rendering pages", "count", len(urls), "workers", workers)

	renders := make(map[string][]byte, len(urls))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, pageURL := range urls {
		g.Go(func() error {
			pdf, err := renderer.RenderURL(gctx, pageURL)
			if err != nil {
				if errors.Is(err, ErrRenderFailed) || errors.Is(err, ErrPageLoad) {
					s.log.Warn("render failed", "url", pageURL, "error", err)
					pdf = nil
				} else {
					return err
				}
			}
			mu.Lock()
			renders[pageURL] = pdf
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return renders, nil
}

// mergeTOC writes one merged PDF for a TOC, splicing the rendered pages of
// its outline in pre-order. On any failure the partial output file is
// removed.
func (s *Service) mergeTOC(ctx context.Context, rootDir string, toc tocFile, resolver *urlResolver, renders map[string][]byte) (err error) {
	outPath := toc.OutputPath(rootDir)
	f, err := os.Create(outPath) // #nosec G304 -- sibling of a discovered toc.json
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(outPath)
		}
	}()

	m := newMerger(f)

	// Destination ids are assigned in outline pre-order, which also fixes
	// the document's page order.
	var urls []string
	toc.Root.walk(func(n *OutlineNode) {
		parsed := resolver.Resolve(n.Href)
		if parsed.PageURL == "" {
			return
		}
		if _, ok := m.urlIDs[parsed.PageURL]; !ok {
			urls = append(urls, parsed.PageURL)
		}
		m.assignURLID(parsed.PageURL)
	})

	for _, pageURL := range urls {
		if err := ctx.Err(); err != nil {
			return err
		}
		pdf := renders[pageURL]
		if pdf == nil {
			continue
		}
		if err := m.AddPDF(pageURL, bytes.NewReader(pdf)); err != nil {
			return err
		}
	}

	if err := m.writeTrailer(toc.Root, resolver.Resolve, "docfx "+s.version); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	s.log.Info("wrote pdf", "path", outPath, "pages", len(m.pages))
	return nil
}
