package window

import (
	"time"
)

var weekdayLabels = [...]string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Rolling identifies days by weekday label and expires a reservation once it
// is older than the retention, with no calendar alignment.
type Rolling struct {
	retention time.Duration
}

func NewRolling(retention time.Duration) *Rolling {
	return &Rolling{retention: retention}
}

func (p *Rolling) Kind() Kind { return KindRolling }

func (p *Rolling) Retention() time.Duration { return p.retention }

func (p *Rolling) VisibleDays(_ time.Time) []string {
	out := make([]string, len(weekdayLabels))
	copy(out, weekdayLabels[:])
	return out
}

func (p *Rolling) IsVisible(dayKey string, _ time.Time) bool {
	for _, l := range weekdayLabels {
		if l == dayKey {
			return true
		}
	}
	return false
}

func (p *Rolling) IsExpired(createdAt, now time.Time) bool {
	return now.Sub(createdAt) > p.retention
}

func (p *Rolling) IsStale(_ string, createdAt, now time.Time) bool {
	return p.IsExpired(createdAt, now)
}

func (p *Rolling) PurgeRange(now time.Time) Range {
	return Range{CreatedBefore: now.Add(-p.retention).UTC()}
}

func (p *Rolling) Anchor(_ time.Time) string {
	return ""
}
