package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/expertdesk/internal/domain"
	"github.com/kailas-cloud/expertdesk/internal/domain/expert"
	domusage "github.com/kailas-cloud/expertdesk/internal/domain/usage"
	assistantuc "github.com/kailas-cloud/expertdesk/internal/usecase/assistant"
	healthuc "github.com/kailas-cloud/expertdesk/internal/usecase/health"
)

// maxBodyBytes caps request bodies; an inline roster of a few hundred experts fits comfortably.
const maxBodyBytes = 1 << 20

// Assistant is the use case surface the HTTP layer drives.
type Assistant interface {
	Ask(ctx context.Context, req assistantuc.Request) (assistantuc.Response, error)
	Experts(ctx context.Context) []expert.Expert
	ReloadRoster(ctx context.Context) (int, error)
}

// UsageReporter reports answer token usage.
type UsageReporter interface {
	GetReport(ctx context.Context, period domusage.Period) domusage.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server serves the assistant HTTP API.
type Server struct {
	assistant     Assistant
	usage         UsageReporter
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(assistant Assistant, usage UsageReporter, health *healthuc.Service, logger *zap.Logger) *Server {
	return &Server{
		assistant: assistant,
		usage:     usage,
		health:    health,
		logger:    logger,
		errorHandlers: []errorHandler{
			onboardingHandler,
			sentinelHandler(domain.ErrQuestionRequired, http.StatusBadRequest, "Question is required"),
			sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, "Invalid request body"),
			sentinelHandler(domain.ErrInvalidExpert, http.StatusBadRequest, "Invalid expert record"),
			sentinelHandler(domain.ErrUnsupportedRosterFormat, http.StatusServiceUnavailable, "Roster source unavailable"),
			sentinelHandler(domain.ErrRosterSource, http.StatusServiceUnavailable, "Roster source unavailable"),
		},
	}
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Post("/api/assistant", s.Ask)
	r.Get("/api/experts", s.ListExperts)
	r.Post("/api/experts/reload", s.ReloadExperts)
	r.Get("/api/usage", s.GetUsage)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Ask handles POST /api/assistant.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var body assistantRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		s.handleDomainError(w, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err))
		return
	}

	req, err := body.toRequest()
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp, err := s.assistant.Ask(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, responseToDTO(&resp))
}

// ListExperts handles GET /api/experts.
func (s *Server) ListExperts(w http.ResponseWriter, r *http.Request) {
	experts := s.assistant.Experts(r.Context())
	out := make([]expertDTO, len(experts))
	for i := range experts {
		out[i] = expertToDTO(&experts[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// ReloadExperts handles POST /api/experts/reload.
func (s *Server) ReloadExperts(w http.ResponseWriter, r *http.Request) {
	n, err := s.assistant.ReloadRoster(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{Count: n})
}

// GetUsage handles GET /api/usage?period=day|month.
func (s *Server) GetUsage(w http.ResponseWriter, r *http.Request) {
	period, err := domusage.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "period must be \"day\" or \"month\"")
		return
	}
	report := s.usage.GetReport(r.Context(), period)
	writeJSON(w, http.StatusOK, usageToDTO(&report))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	status := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, healthResponse{Status: string(report.Status), Checks: checks})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func sentinelHandler(sentinel error, status int, message string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, message)
		return true
	}
}

// onboardingHandler reports which onboarding fields the client must collect.
func onboardingHandler(w http.ResponseWriter, err error) bool {
	var oe *domain.OnboardingError
	if !errors.As(err, &oe) {
		return false
	}
	writeJSON(w, http.StatusBadRequest, errorResponse{
		Error:         "Onboarding required",
		MissingFields: oe.MissingFields,
	})
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Warn("Request rejected", zap.Error(err))
			return
		}
	}
	s.logger.Error("Internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
