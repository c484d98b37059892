package domain

import (
	"errors"
	"strings"
)

var (
	// ErrQuestionRequired signals a request without a question.
	ErrQuestionRequired = errors.New("question is required")
	// ErrOnboardingRequired signals missing onboarding context (affiliation or thematic area).
	ErrOnboardingRequired = errors.New("onboarding required")
	// ErrInvalidExpert signals an expert record that cannot be used.
	ErrInvalidExpert = errors.New("invalid expert")
	// ErrAnswerProviderError signals a language-model provider failure.
	ErrAnswerProviderError = errors.New("answer provider error")
	// ErrRosterSource signals an unreadable or malformed roster source.
	ErrRosterSource = errors.New("roster source error")
	// ErrUnsupportedRosterFormat signals a roster file with an unknown extension.
	ErrUnsupportedRosterFormat = errors.New("unsupported roster format")
	// ErrAnswerQuotaExceeded signals that the answer token budget is spent.
	ErrAnswerQuotaExceeded = errors.New("answer token quota exceeded")
	// ErrInvalidRequest signals a request body that cannot be decoded.
	ErrInvalidRequest = errors.New("invalid request")
)

// OnboardingFields lists the onboarding fields a client is asked to provide.
var OnboardingFields = []string{"affiliation", "thematic_area", "contact"}

// OnboardingError wraps ErrOnboardingRequired with the fields the client must supply.
type OnboardingError struct {
	MissingFields []string
}

func (e *OnboardingError) Error() string {
	return ErrOnboardingRequired.Error() + ": " + strings.Join(e.MissingFields, ", ")
}

func (e *OnboardingError) Unwrap() error { return ErrOnboardingRequired }

// NewOnboardingError creates an onboarding error listing the standard onboarding fields.
func NewOnboardingError() error {
	fields := make([]string, len(OnboardingFields))
	copy(fields, OnboardingFields)
	return &OnboardingError{MissingFields: fields}
}
