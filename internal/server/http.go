package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/toyamagu-2021/argocd-gateway/internal/api"
	"github.com/toyamagu-2021/argocd-gateway/internal/argocd"
	"github.com/toyamagu-2021/argocd-gateway/internal/config"
	apperrors "github.com/toyamagu-2021/argocd-gateway/internal/errors"
	"github.com/toyamagu-2021/argocd-gateway/internal/logging"
	"github.com/toyamagu-2021/argocd-gateway/internal/metrics"
)

const shutdownTimeout = 5 * time.Second

// HealthCheckResponse is the liveness probe body
type HealthCheckResponse struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
}

// HTTPServer serves the gateway endpoints.
type HTTPServer struct {
	cfg     config.ServerConfig
	fetcher api.Fetcher
	logger  *logrus.Logger
	router  chi.Router
}

// NewHTTP builds the router. fetcher is shared by all requests.
func NewHTTP(cfg config.ServerConfig, fetcher api.Fetcher) *HTTPServer {
	s := &HTTPServer{
		cfg:     cfg,
		fetcher: fetcher,
		logger:  logging.GetLogger(),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.RequestLogger(s.logger))
	r.Use(middleware.Recoverer)
	// go-chi/cors treats an empty origin list as "*", so no origins means no CORS at all.
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowedHeaders:   []string{"*"},
			AllowCredentials: true,
		}))
	}
	r.Use(instrument)

	r.Get("/healthcheck", s.handleHealthcheck)
	r.Get("/api/v1/argocd/application_status", s.handleApplicationStatus)
	r.Get("/api/v1/argocd/list_projects", s.handleListProjects)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	s.router = r
	return s
}

// Handler returns the root handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.WithError(err).Warn("HTTP server shutdown")
		}
	}()

	s.logger.WithFields(logrus.Fields{
		"addr":    srv.Addr,
		"service": s.cfg.Name,
	}).Info("Starting HTTP server")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) handleHealthcheck(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("healthcheck hit")
	writeJSON(w, HealthCheckResponse{
		StatusCode: http.StatusOK,
		Message:    "Server is running!",
	})
}

func (s *HTTPServer) handleApplicationStatus(w http.ResponseWriter, r *http.Request) {
	data := s.fetcher.Fetch(r.Context(), api.ApplicationsPath)
	writeJSON(w, argocd.ApplicationStatusResponse{
		Applications: argocd.NormalizeApplications(data),
	})
}

func (s *HTTPServer) handleListProjects(w http.ResponseWriter, r *http.Request) {
	data := s.fetcher.Fetch(r.Context(), api.ProjectsPath)
	writeJSON(w, argocd.ProjectListResponse{
		Projects: argocd.NormalizeProjects(data),
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		appErr := apperrors.NewInternalError("failed to encode response", err)
		logging.WithFields(logrus.Fields{
			"error":      appErr.Error(),
			"error_type": appErr.Type,
		}).Error("Failed to write response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(append(data, '\n'))
}

// instrument records request durations labelled by route pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(route, r.Method, strconv.Itoa(ww.Status())).
			Observe(time.Since(start).Seconds())
	})
}
