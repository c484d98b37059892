package usage

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/expertdesk/internal/domain"
)

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod parses a period name. Empty means PeriodDay.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, nil
	case PeriodMonth:
		return PeriodMonth, nil
	default:
		return "", fmt.Errorf("%w: period must be \"day\" or \"month\", got %q", domain.ErrInvalidRequest, s)
	}
}

// Report is answer token usage for one budget window.
type Report struct {
	period      Period
	periodStart time.Time
	periodEnd   time.Time
	limit       int64
	used        int64
	remaining   int64
}

// NewReport creates a usage report. limit 0 means unlimited; remaining is then ignored.
func NewReport(period Period, start, end time.Time, limit, used, remaining int64) Report {
	if limit <= 0 {
		limit, remaining = 0, -1
	}
	return Report{
		period:      period,
		periodStart: start,
		periodEnd:   end,
		limit:       limit,
		used:        used,
		remaining:   remaining,
	}
}

// Period returns the aggregation granularity.
func (r *Report) Period() Period { return r.period }

// PeriodStart returns when the window opened (UTC).
func (r *Report) PeriodStart() time.Time { return r.periodStart }

// PeriodEnd returns when the window resets (UTC).
func (r *Report) PeriodEnd() time.Time { return r.periodEnd }

// Limit returns the token cap, 0 if unlimited.
func (r *Report) Limit() int64 { return r.limit }

// Used returns tokens consumed in the window.
func (r *Report) Used() int64 { return r.used }

// Remaining returns tokens left, -1 if unlimited.
func (r *Report) Remaining() int64 { return r.remaining }

// Unlimited reports whether the window has no cap.
func (r *Report) Unlimited() bool { return r.limit == 0 }

// Exhausted reports whether a capped window has no tokens left.
func (r *Report) Exhausted() bool { return r.limit > 0 && r.remaining <= 0 }
