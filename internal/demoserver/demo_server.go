package demoserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/raysh454/pagesource/internal/logging"
)

// Fixture bodies served by the demo server.
const (
	OKBody       = "<html>OK</html>"
	NotFoundBody = "Not Found"
)

// Latin1Body is "<p>café</p>" encoded as ISO-8859-1.
var Latin1Body = []byte("<p>caf\xe9</p>")

// DemoServer serves a few fixed pages for trying pagesource locally:
//
//	/        200 <html>OK</html>
//	/latin1  200 ISO-8859-1 body with a declared charset
//	/slow    200 after the configured delay
//	anything else  404 Not Found
type DemoServer struct {
	cfg    Config
	logger logging.Logger
	srv    *http.Server
}

// NewDemoServer creates a new demo server instance.
func NewDemoServer(cfg Config, logger logging.Logger) *DemoServer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &DemoServer{
		cfg:    cfg,
		logger: logger.With(logging.Field{Key: "component", Value: "demoserver"}),
	}
	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the routing handler, usable directly with httptest.
func (s *DemoServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.rootHandler)
	mux.HandleFunc("/latin1", s.latin1Handler)
	mux.HandleFunc("/slow", s.slowHandler)
	return s.logRequests(mux)
}

// Start listens on the configured port and blocks until Shutdown.
func (s *DemoServer) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown.
func (s *DemoServer) Serve(ln net.Listener) error {
	s.logger.Info("demo server listening", logging.Field{Key: "addr", Value: ln.Addr().String()})
	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *DemoServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *DemoServer) rootHandler(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		s.notFound(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, OKBody)
}

func (s *DemoServer) latin1Handler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
	_, _ = w.Write(Latin1Body)
}

func (s *DemoServer) slowHandler(w http.ResponseWriter, r *http.Request) {
	select {
	case <-time.After(2 * time.Second):
	case <-r.Context().Done():
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = fmt.Fprint(w, OKBody)
}

func (s *DemoServer) notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = fmt.Fprint(w, NotFoundBody)
}

func (s *DemoServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("demo request",
			logging.Field{Key: "method", Value: r.Method},
			logging.Field{Key: "path", Value: r.URL.Path})
		next.ServeHTTP(w, r)
	})
}
