// Package server exposes discovery scans over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/projectdiscovery/gologger"
	"github.com/projectdiscovery/netvis/pkg/types"
	"github.com/projectdiscovery/netvis/pkg/version"
)

// Scanner runs one discovery cycle per call
type Scanner interface {
	Scan(ctx context.Context) (*types.ScanResult, error)
}

// Server serves scan results
type Server struct {
	scanner Scanner
	listen  string
	server  *http.Server
	router  *mux.Router
}

// New creates a server listening on listen. scanTimeout bounds how long a
// response may take to be written.
func New(scanner Scanner, listen string, scanTimeout time.Duration) *Server {
	s := &Server{
		scanner: scanner,
		listen:  listen,
	}
	writeTimeout := 10 * time.Minute
	if scanTimeout > 0 {
		writeTimeout = scanTimeout + 15*time.Second
	}
	s.server = &http.Server{
		Addr:         listen,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		gologger.Verbose().Msgf("%s %s from %s took %s", r.Method, r.URL.Path, r.RemoteAddr, time.Since(start))
	})
}

// Router returns the request router, building it on first use
func (s *Server) Router() *mux.Router {
	if s.router == nil {
		s.router = mux.NewRouter()
		s.router.Use(s.Middleware)
		s.router.HandleFunc("/scan", s.Scan).Methods(http.MethodGet)
		s.router.HandleFunc("/healthz", s.Health).Methods(http.MethodGet)
	}
	return s.router
}

// Scan runs a fresh scan for every request
func (s *Server) Scan(w http.ResponseWriter, r *http.Request) {
	result, err := s.scanner.Scan(r.Context())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			gologger.Warning().Msgf("Scan for %s aborted: %s", r.RemoteAddr, err)
			ResponseMsg(w, http.StatusServiceUnavailable, "scan aborted")
			return
		}
		gologger.Error().Msgf("Scan for %s failed: %s", r.RemoteAddr, err)
		ResponseMsg(w, http.StatusInternalServerError, err.Error())
		return
	}
	ResponseJson(w, result)
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	ResponseJson(w, map[string]string{
		"status":  "ok",
		"version": version.GetVersion(),
	})
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	gologger.Info().Msgf("Serving scans on http://%s/scan", s.listen)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight scans until ctx is done
func (s *Server) Shutdown(ctx context.Context) error {
	gologger.Info().Msgf("Shutting down server on %s", s.listen)
	return s.server.Shutdown(ctx)
}

func ResponseJson(w http.ResponseWriter, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func ResponseMsg(w http.ResponseWriter, code int, message string) {
	ret := struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}{
		Code:    code,
		Message: message,
	}
	data, _ := json.Marshal(ret)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}
