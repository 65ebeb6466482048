package window

import (
	"fmt"
	"time"
)

type Kind string

const (
	KindCalendarWeek Kind = "calendar-week"
	KindRolling      Kind = "rolling"
)

func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k names a known policy.
func (k Kind) IsValid() bool {
	switch k {
	case KindCalendarWeek, KindRolling:
		return true
	default:
		return false
	}
}

// Range bounds what a relational store keeps. A calendar policy fills
// DayFrom (inclusive) and DayTo (exclusive); a rolling policy fills
// CreatedBefore. Zero values are unused bounds.
type Range struct {
	DayFrom       string
	DayTo         string
	CreatedBefore time.Time
}

// IsDayBounded reports whether r bounds by day key rather than by creation time.
func (r Range) IsDayBounded() bool {
	return r.DayFrom != "" && r.DayTo != ""
}

// Policy decides which day identifiers are bookable at a given instant and
// which stored reservations have gone stale. Implementations are pure
// functions of their configuration and the supplied time.
type Policy interface {
	Kind() Kind
	VisibleDays(now time.Time) []string
	IsVisible(dayKey string, now time.Time) bool
	IsStale(dayKey string, createdAt, now time.Time) bool
	PurgeRange(now time.Time) Range
	// Anchor identifies the current window; empty when the policy has no
	// calendar anchor.
	Anchor(now time.Time) string
}

func New(kind Kind, loc *time.Location, retention time.Duration) (Policy, error) {
	switch kind {
	case KindCalendarWeek:
		if loc == nil {
			return nil, fmt.Errorf("window: calendar-week policy requires a location")
		}
		return NewCalendarWeek(loc), nil
	case KindRolling:
		if retention <= 0 {
			return nil, fmt.Errorf("window: rolling retention must be positive, got %s", retention)
		}
		return NewRolling(retention), nil
	default:
		return nil, fmt.Errorf("window: unknown policy %q", kind)
	}
}
