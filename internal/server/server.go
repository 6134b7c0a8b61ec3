// Package server serves the dashboard pages, the JSON API and the chart images over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/KaramelBytes/cafeteria-insights/internal/analysis"
	"github.com/KaramelBytes/cafeteria-insights/internal/charts"
	"github.com/KaramelBytes/cafeteria-insights/internal/dashboard"
	"github.com/KaramelBytes/cafeteria-insights/internal/dataset"
	"github.com/KaramelBytes/cafeteria-insights/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// Server exposes one dashboard.
type Server struct {
	dash    *dashboard.Dashboard
	metrics *metrics.Metrics
	logger  *zap.Logger
	pages   *template.Template
}

// New wires a server. A nil metrics value disables /metrics.
func New(d *dashboard.Dashboard, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		dash:    d,
		metrics: m,
		logger:  logger.With(zap.String("component", "server")),
		pages:   template.Must(template.New("page").Funcs(templateFuncs).Parse(pageTemplate)),
	}
}

// Routes returns the HTTP handler tree.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.index)
	r.Get("/sections/{slug}", s.sectionPage)
	r.Get("/charts/{name}.png", s.chart)
	r.Get("/healthz", s.health)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/sections", s.apiSections)
		r.Get("/sections/{slug}", s.apiSection)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// within timeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, timeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", zap.Duration("timeout", timeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			s.logger.Info("request",
				zap.String("request_id", middleware.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("elapsed", time.Since(start)))
		}()
		next.ServeHTTP(ww, r)
	})
}

// StatusFor maps dashboard errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, dashboard.ErrUnknownSection), errors.Is(err, dashboard.ErrUnknownChart):
		return http.StatusNotFound
	case errors.Is(err, dashboard.ErrUnknownFeature):
		return http.StatusBadRequest
	case errors.Is(err, dataset.ErrMissingColumn), errors.Is(err, analysis.ErrNotNumeric), errors.Is(err, charts.ErrNoData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/sections/"+s.dash.Navigation().Default().Slug, http.StatusFound)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]string{"status": "ok"})
}

type sectionsResponse struct {
	Layout   string            `json:"layout"`
	Entries  []dashboard.Entry `json:"entries"`
	Features []string          `json:"features"`
	Charts   []string          `json:"charts"`
}

func (s *Server) apiSections(w http.ResponseWriter, r *http.Request) {
	nav := s.dash.Navigation()
	render.JSON(w, r, sectionsResponse{
		Layout:   nav.Layout(),
		Entries:  nav.Entries(),
		Features: s.dash.Features(),
		Charts:   dashboard.ChartNames,
	})
}

func (s *Server) apiSection(w http.ResponseWriter, r *http.Request) {
	page, err := s.dash.Render(chi.URLParam(r, "slug"), r.URL.Query().Get("feature"))
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	render.JSON(w, r, page)
}

func (s *Server) apiError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.String("request_id", middleware.GetReqID(r.Context())), zap.Error(err))
	}
	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error(), RequestID: middleware.GetReqID(r.Context())})
}

func (s *Server) chart(w http.ResponseWriter, r *http.Request) {
	img, err := s.dash.Chart(chi.URLParam(r, "name"), r.URL.Query().Get("feature"))
	if err != nil {
		s.apiError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(img)
}

func (s *Server) sectionPage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	view := pageView{
		Title:   appTitle,
		Entries: s.dash.Navigation().Entries(),
		Active:  slug,
	}
	status := http.StatusOK
	page, err := s.dash.Render(slug, r.URL.Query().Get("feature"))
	if err != nil {
		status = StatusFor(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("page failed", zap.String("slug", slug), zap.Error(err))
		}
		view.Heading = "Error"
		view.Error = err.Error()
	} else {
		view.Heading = page.Title
		view.Blocks = page.Blocks
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages.Execute(w, view); err != nil {
		s.logger.Error("template", zap.Error(err))
	}
}
