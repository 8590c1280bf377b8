package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"custodia/internal/config"
	"custodia/internal/domain"
	"custodia/internal/errs"
	"custodia/internal/metrics"
)

// Identity headers are set by the upstream gateway after session auth.
const (
	HeaderUserID   = "x-user-id"
	HeaderUserRole = "x-user-role"
)

// HTTPServer exposes the checklist and export endpoints.
type HTTPServer struct {
	cfg       config.APIConfig
	generator domain.ChecklistGenerator
	exports   domain.ExportQueue
	server    *http.Server
	auth      *HTTPAuth
	logger    *zerolog.Logger
}

func NewHTTPServer(cfg config.APIConfig, generator domain.ChecklistGenerator, exports domain.ExportQueue, logger *zerolog.Logger) *HTTPServer {
	mux := http.NewServeMux()
	srv := &HTTPServer{cfg: cfg, generator: generator, exports: exports, logger: logger}
	srv.auth = NewHTTPAuth(cfg)

	mux.HandleFunc("/api/v1/bookings/", srv.handleBooking)
	mux.HandleFunc("/api/v1/exports/register", srv.handleExportRegister)
	mux.HandleFunc("/healthz", srv.handleHealth)

	handler := srv.loggingMiddleware(srv.auth.Wrap(mux))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // browser render can be slow
	}

	return srv
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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

// handleBooking dispatches /api/v1/bookings/{id}/checklist.pdf.
func (s *HTTPServer) handleBooking(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	const prefix = "/api/v1/bookings/"
	rest := strings.TrimPrefix(r.URL.Path, prefix)
	bookingID, tail, _ := strings.Cut(rest, "/")
	if bookingID == "" || tail != "checklist.pdf" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	query, ok := s.checklistQuery(w, r, bookingID)
	if !ok {
		return
	}

	metrics.IncHTTP("checklist")
	pdfBytes, err := s.generator.GenerateChecklist(r.Context(), query)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="booking-%s-checklist.pdf"`, bookingID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdfBytes)
}

func (s *HTTPServer) handleExportRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	organizationID := strings.TrimSpace(r.URL.Query().Get("organization_id"))
	if organizationID == "" {
		writeError(w, http.StatusBadRequest, "organization_id is required")
		return
	}

	start, err := time.Parse("2006-01-02", r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date; expected YYYY-MM-DD")
		return
	}
	end, err := time.Parse("2006-01-02", r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date; expected YYYY-MM-DD")
		return
	}

	metrics.IncHTTP("export_register")
	if err := s.exports.EnqueueRegister(r.Context(), organizationID, start, end); err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) checklistQuery(w http.ResponseWriter, r *http.Request, bookingID string) (domain.ChecklistQuery, bool) {
	organizationID := strings.TrimSpace(r.URL.Query().Get("organization_id"))
	if organizationID == "" {
		writeError(w, http.StatusBadRequest, "organization_id is required")
		return domain.ChecklistQuery{}, false
	}

	userID := strings.TrimSpace(r.Header.Get(HeaderUserID))
	role := strings.TrimSpace(r.Header.Get(HeaderUserRole))
	if userID == "" || role == "" {
		writeError(w, http.StatusUnauthorized, "missing identity headers")
		return domain.ChecklistQuery{}, false
	}

	return domain.ChecklistQuery{
		BookingID:      bookingID,
		OrganizationID: organizationID,
		UserID:         userID,
		Role:           role,
	}, true
}

// writeServiceError maps structured errors onto HTTP responses and logs
// only capture-worthy failures at error level.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, err error) {
	status := errs.StatusOf(err)
	if errs.IsCaptureWorthy(err) {
		s.logger.Error().Err(err).Msg("checklist request failed")
	} else {
		s.logger.Debug().Err(err).Msg("checklist request rejected")
	}
	writeError(w, status, err.Error())
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
