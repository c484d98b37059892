package expertdesk

import (
	"errors"

	"github.com/kailas-cloud/expertdesk/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrQuestionRequired        = domain.ErrQuestionRequired
	ErrOnboardingRequired      = domain.ErrOnboardingRequired
	ErrInvalidExpert           = domain.ErrInvalidExpert
	ErrRosterSource            = domain.ErrRosterSource
	ErrUnsupportedRosterFormat = domain.ErrUnsupportedRosterFormat
)

// ErrNoRosterFile is returned by Reload on a client built with an in-memory roster.
var ErrNoRosterFile = errors.New("expertdesk: roster has no file source")
