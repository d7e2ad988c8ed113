package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hotelavail/internal/config"
	"hotelavail/internal/domain"
	"hotelavail/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// HTTPServer exposes the availability calculator as a JSON API.
type HTTPServer struct {
	cfg     *config.APIConfig
	checker domain.AvailabilityChecker
	server  *http.Server
	auth    *HTTPAuth
	logger  *zerolog.Logger
}

func NewHTTPServer(cfg *config.APIConfig, checker domain.AvailabilityChecker, logger *zerolog.Logger) *HTTPServer {
	if logger == nil {
		l := zerolog.Nop()
		logger = &l
	}
	httpLogger := logger.With().Str("component", "http").Logger()

	srv := &HTTPServer{
		cfg:     cfg,
		checker: checker,
		auth:    NewHTTPAuth(cfg),
		logger:  &httpLogger,
	}

	mux := http.NewServeMux()
	srv.handle(mux, "/healthz", "healthz", srv.handleHealthz)
	srv.handle(mux, "/readyz", "readyz", srv.handleReadyz)
	srv.handle(mux, "/api/v1/hotels", "hotels", srv.handleHotels)
	srv.handle(mux, "/api/v1/availability", "availability", srv.handleAvailability)
	srv.handle(mux, "/api/v1/availability/report", "report", srv.handleReport)
	srv.handle(mux, "/api/v1/availability/report.xlsx", "report_xlsx", srv.handleReportXLSX)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	handler := chain(mux,
		requestLogging(srv.logger),
		recovery,
		cors(srv.auth.headerAPIKey, srv.auth.headerExtra),
		srv.auth.Wrap,
	)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) handle(mux *http.ServeMux, pattern, endpoint string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		metrics.IncHTTP(endpoint)
		h(w, r)
	})
}

// Handler returns the fully wrapped handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return errors.New("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Error: message})
}
