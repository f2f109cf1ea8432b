package docfx

import (
	"context"
	"net"
	"net/http"
	"time"
)

// staticServer hosts the built documentation pages for the headless browser
// to navigate to. It binds a loopback port chosen by the kernel so parallel
// builds never collide.
type staticServer struct {
	srv *http.Server
	url string
}

func newStaticServer(dir string) (*staticServer, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, err
	}

	srv := &http.Server{
		Handler:           http.FileServer(http.Dir(dir)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		// ErrServerClosed after Close; nothing to report.
		_ = srv.Serve(ln)
	}()

	return &staticServer{
		srv: srv,
		url: "http://" + ln.Addr().String() + "/",
	}, nil
}

// URL returns the server's bound base URL, with a trailing slash.
func (s *staticServer) URL() string { return s.url }

// Close shuts the server down, waiting briefly for in-flight requests.
func (s *staticServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
