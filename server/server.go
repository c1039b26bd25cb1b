// Package server exposes a finance repository as a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/etnz/finance"
	"github.com/etnz/finance/logging"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Config holds configuration for the API server.
type Config struct {
	// Address to listen on (e.g., ":8080")
	Address string

	// ReadTimeout for HTTP requests
	ReadTimeout time.Duration

	// WriteTimeout for HTTP responses
	WriteTimeout time.Duration

	// Logger defaults to the global logger.
	Logger *zap.Logger

	// Registry receives the server metrics, a new one is created if nil.
	Registry *prometheus.Registry
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Address:      ":8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
}

// Server serves the finance API.
type Server struct {
	repo    *finance.Repository
	router  *mux.Router
	server  *http.Server
	log     *zap.Logger
	metrics *metrics
}

// New creates a server on top of repo.
func New(repo *finance.Repository, config Config) *Server {
	if config.Logger == nil {
		config.Logger = logging.L()
	}
	if config.Registry == nil {
		config.Registry = prometheus.NewRegistry()
	}
	s := &Server{
		repo:    repo,
		router:  mux.NewRouter(),
		log:     config.Logger.Named("server"),
		metrics: newMetrics(config.Registry),
	}

	r := s.router
	r.Use(requestID, s.accessLog, s.metrics.middleware)

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(config.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	r.HandleFunc("/home", s.handleHome).Methods(http.MethodGet)
	r.HandleFunc("/networth", s.handleNetWorth).Methods(http.MethodGet)
	r.HandleFunc("/spend/monthly", s.handleMonthlySpend).Methods(http.MethodGet)
	r.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)

	r.HandleFunc("/wallets", s.handleListWallets).Methods(http.MethodGet)
	r.HandleFunc("/wallets", s.handleCreateWallet).Methods(http.MethodPost)
	r.HandleFunc("/wallets/{id:[0-9]+}", s.handleGetWallet).Methods(http.MethodGet)
	r.HandleFunc("/wallets/{id:[0-9]+}/transactions", s.handleListTransactions).Methods(http.MethodGet)
	r.HandleFunc("/wallets/{id:[0-9]+}/transactions", s.handleCreateTransaction).Methods(http.MethodPost)
	r.HandleFunc("/wallets/{id:[0-9]+}/split", s.handleSplit).Methods(http.MethodPost)
	r.HandleFunc("/wallets/{id:[0-9]+}/debts", s.handleListDebts).Methods(http.MethodGet)
	r.HandleFunc("/wallets/{id:[0-9]+}/deposit", s.handleCapital(true)).Methods(http.MethodPost)
	r.HandleFunc("/wallets/{id:[0-9]+}/withdraw", s.handleCapital(false)).Methods(http.MethodPost)
	r.HandleFunc("/wallets/{id:[0-9]+}/snapshots", s.handleListSnapshots).Methods(http.MethodGet)
	r.HandleFunc("/wallets/{id:[0-9]+}/snapshots", s.handleValuation).Methods(http.MethodPost)
	r.HandleFunc("/wallets/{id:[0-9]+}/performance", s.handlePerformance).Methods(http.MethodGet)
	r.HandleFunc("/debts/{id:[0-9]+}/settle", s.handleSettle).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, errors.New("no route for "+r.URL.Path))
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, errors.New(r.Method+" is not allowed on "+r.URL.Path))
	})

	s.server = &http.Server{
		Addr:         config.Address,
		Handler:      r,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler of the API.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errc := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("address", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// errorBody is the body of every error response.
type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorBody{Error: http.StatusText(status), Detail: err.Error()})
}

// statusOf maps the repository errors to HTTP statuses.
func statusOf(err error) int {
	switch {
	case errors.Is(err, finance.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, finance.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error response matching err.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", zap.String("request_id", RequestID(r.Context())), zap.Error(err))
	}
	writeError(w, status, err)
}
