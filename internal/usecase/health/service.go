package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates some checks failed.
	Degraded Status = "degraded"
	// Unhealthy indicates every check failed.
	Unhealthy Status = "error"
)

// CheckResult is one component's outcome.
type CheckResult string

const (
	CheckOK    CheckResult = "ok"
	CheckError CheckResult = "error"
	// CheckEmpty marks a roster with no experts; the service still answers but recommends nobody.
	CheckEmpty CheckResult = "empty"
)

// checkTimeout bounds each individual probe.
const checkTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	roster Roster
	cache  CachePinger
	answer AnswerChecker
}

// New creates a Service. cache and answer may be nil when not configured.
func New(roster Roster, cache CachePinger, answer AnswerChecker) *Service {
	return &Service{roster: roster, cache: cache, answer: answer}
}

// Check runs every configured probe.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, 3)

	if len(s.roster.Experts(ctx)) == 0 {
		checks["roster"] = CheckEmpty
	} else {
		checks["roster"] = CheckOK
	}
	if s.cache != nil {
		checks["cache"] = probe(ctx, s.cache.Ping)
	}
	if s.answer != nil {
		checks["answer"] = probe(ctx, s.answer.HealthCheck)
	}

	return Report{Status: aggregate(checks), Checks: checks}
}

func probe(ctx context.Context, fn func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}

func aggregate(checks map[string]CheckResult) Status {
	failed := 0
	for _, v := range checks {
		if v != CheckOK {
			failed++
		}
	}
	switch {
	case failed == 0:
		return Healthy
	case failed == len(checks):
		return Unhealthy
	default:
		return Degraded
	}
}
