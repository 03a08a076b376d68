package metrics

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rileyhilliard/pingplot/internal/errors"
	"github.com/rileyhilliard/pingplot/internal/logger"
)

// Path is where metrics are served.
const Path = "/metrics"

const indexHTML = `<!doctype html>
<html>
<head><title>pingplot</title></head>
<body>
<h1>pingplot</h1>
<p><a href="%s">Metrics</a></p>
</body>
</html>`

const shutdownTimeout = time.Second

// Server serves the collector over HTTP.
type Server struct {
	ln  net.Listener
	srv *http.Server
	log logger.Logger
}

// Listen binds addr so a bad address is reported before monitoring starts.
func Listen(addr string, c prometheus.Collector) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't listen for metrics on %s", addr),
			"Pick a free address with --metrics-addr, e.g. :9374")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(c)

	mux := http.NewServeMux()
	mux.Handle(Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{
		ErrorLog:      logger.Entry("metrics"),
		ErrorHandling: promhttp.ContinueOnError,
	}))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, indexHTML, Path)
	})

	return &Server{
		ln:  ln,
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		log: logger.New("metrics"),
	}, nil
}

// Addr returns the bound address.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Serve handles requests until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("serving metrics on %s%s", s.ln.Addr(), Path)
		errCh <- s.srv.Serve(s.ln)
	}()

	select {
	case err := <-errCh:
		return errors.WrapWithCode(err, errors.ErrProbe, "Metrics server stopped", "")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		s.log.Warn("metrics server shutdown: %v", err)
	}
	return nil
}
