// Package server serves a board of live charts over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /                  HTML page with every chart, clicks wired
//	GET    /charts            list charts
//	POST   /charts            create a chart
//	GET    /charts/{id}       chart state
//	PATCH  /charts/{id}       update data, color or title
//	DELETE /charts/{id}
//	GET    /charts/{id}/svg   current frame, in-flight transitions animated
//	GET    /charts/{id}/png
//	POST   /charts/{id}/click {"ctrl":bool,"alt":bool}; responds with the svg
//
// Errors are JSON objects {"code": ..., "message": ...}. INVALID_* codes
// map to 422, NOT_FOUND to 404 and everything else to 500.
package server

import (
	"context"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/barchart/pkg/board"
	"github.com/matzehuels/barchart/pkg/chart"
	"github.com/matzehuels/barchart/pkg/demo"
	"github.com/matzehuels/barchart/pkg/pipeline"
)

// Server exposes a Board over HTTP.
type Server struct {
	board     *board.Board
	runner    *pipeline.Runner
	logger    *log.Logger
	chartOpts []chart.Option
	pngOpts   pipeline.Options
	rng       *rand.Rand
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRunner sets the pipeline runner used for PNG export and its cache.
func WithRunner(r *pipeline.Runner) Option {
	return func(s *Server) { s.runner = r }
}

// WithChartOptions sets options applied to every chart the server creates.
func WithChartOptions(opts ...chart.Option) Option {
	return func(s *Server) { s.chartOpts = opts }
}

// WithPNGOptions sets the scale, engine and Chrome flags for PNG export.
func WithPNGOptions(opts pipeline.Options) Option {
	return func(s *Server) { s.pngOpts = opts }
}

// WithRand sets the random source used when seeding demo charts.
func WithRand(r *rand.Rand) Option {
	return func(s *Server) { s.rng = r }
}

// New returns a server over b.
func New(b *board.Board, opts ...Option) *Server {
	s := &Server{board: b}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// Board returns the served board.
func (s *Server) Board() *board.Board { return s.board }

// Seed adds n demo charts, alternating horizontal and vertical, each with
// random country data, the demo margin and the initial demo title.
func (s *Server) Seed(ctx context.Context, n int) error {
	for i := range n {
		o := chart.Horizontal
		if i%2 == 1 {
			o = chart.Vertical
		}
		opts := append(s.chartOptions(), chart.WithMargin(demo.Margin()), chart.WithRand(s.rng))
		c, err := chart.New(ctx, o, demo.RandomData(s.rng, demo.Countries()), demo.InitialTitle, opts...)
		if err != nil {
			return err
		}
		s.board.Add(c)
	}
	s.logger.Info("seeded demo charts", "count", n)
	return nil
}

func (s *Server) chartOptions() []chart.Option {
	return append([]chart.Option{chart.WithLogger(s.logger)}, s.chartOpts...)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Route("/charts", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/", s.handleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Patch("/", s.handleUpdate)
			r.Delete("/", s.handleDelete)
			r.Get("/svg", s.handleSVG)
			r.Get("/png", s.handlePNG)
			r.Post("/click", s.handleClick)
		})
	})
	return r
}

// Config holds listener settings for ListenAndServe.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// ready, when non-nil, receives the bound address once listening.
func (s *Server) ListenAndServe(ctx context.Context, cfg Config, ready func(addr string)) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}
	if ready != nil {
		ready(ln.Addr().String())
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errc
		return nil
	}
}
