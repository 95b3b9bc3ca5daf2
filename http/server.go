package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/villages"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// DefaultMaxBodySize bounds request bodies, which carry whole pasted pages.
const DefaultMaxBodySize = 10 << 20

// ShutdownTimeout is the time given for active connections to shut down.
const ShutdownTimeout = 5 * time.Second

// Pinger reports whether the record store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server serves the paste form, the record listing and the submission
// endpoint.
type Server struct {
	ln     net.Listener
	server *http.Server
	router *mux.Router

	// Bind address to open, e.g. ":3000".
	Addr string

	Logger *slog.Logger

	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string

	// MaxBodySize bounds submission bodies in bytes.
	MaxBodySize int64

	// Services used by the handlers. Pinger and Limiter are optional.
	RecordService villages.RecordService
	Submitter     villages.Submitter
	Merger        villages.Merger
	Pinger        Pinger
	Limiter       *ClientLimiter
}

// NewServer returns a new Server with its routes registered.
// Services must be set before the server handles requests.
func NewServer() *Server {
	s := &Server{
		Logger:      slog.Default(),
		MaxBodySize: DefaultMaxBodySize,
		router:      mux.NewRouter(),
	}

	s.router.Use(s.requestID, s.accessLog, s.recovery)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Error(w, r, villages.Errorf(villages.ENOTFOUND, "Not found."))
	})

	s.router.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	s.registerRecordRoutes(s.router)
	s.registerSubmitRoutes(s.router)

	return s
}

// Handler returns the router wrapped with CORS handling.
func (s *Server) Handler() http.Handler {
	origins := s.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "If-None-Match", requestIDHeader},
		ExposedHeaders: []string{"ETag", requestIDHeader},
		MaxAge:         86400,
	})
	return c.Handler(s.router)
}

// Open begins listening on the bind address and serves in the background.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}

	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("http server stopped", "err", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Port returns the TCP port for the running server.
// This is useful in tests where we allocate a random port by using ":0".
func (s *Server) Port() int {
	if s.ln == nil {
		return 0
	}
	return s.ln.Addr().(*net.TCPAddr).Port
}

type healthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// handleHealth reports store reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.Pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.Pinger.PingContext(ctx); err != nil {
			s.Logger.Warn("health check failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, &healthResponse{Status: "unavailable", Error: "record store unreachable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, &healthResponse{Status: "ok"})
}
