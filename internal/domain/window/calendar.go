package window

import (
	"time"
)

const (
	DateLayout = "2006-01-02"
	daysInWeek = 7
)

// CalendarWeek shows Monday 00:00 local through the following Monday 00:00
// local, recomputed on every call.
type CalendarWeek struct {
	loc *time.Location
}

func NewCalendarWeek(loc *time.Location) *CalendarWeek {
	return &CalendarWeek{loc: loc}
}

func (p *CalendarWeek) Kind() Kind { return KindCalendarWeek }

func (p *CalendarWeek) Location() *time.Location { return p.loc }

// Bounds returns the local midnight that starts the current week and the one
// that ends it.
func (p *CalendarWeek) Bounds(now time.Time) (start, end time.Time) {
	local := now.In(p.loc)
	// time.Weekday counts from Sunday; shift so Monday is day 0.
	diff := (int(local.Weekday()) - int(time.Monday) + daysInWeek) % daysInWeek
	start = time.Date(local.Year(), local.Month(), local.Day()-diff, 0, 0, 0, 0, p.loc)
	end = time.Date(start.Year(), start.Month(), start.Day()+daysInWeek, 0, 0, 0, 0, p.loc)
	return start, end
}

func (p *CalendarWeek) VisibleDays(now time.Time) []string {
	start, _ := p.Bounds(now)
	days := make([]string, daysInWeek)
	for i := range days {
		days[i] = time.Date(start.Year(), start.Month(), start.Day()+i, 0, 0, 0, 0, p.loc).Format(DateLayout)
	}
	return days
}

func (p *CalendarWeek) IsVisible(dayKey string, now time.Time) bool {
	for _, d := range p.VisibleDays(now) {
		if d == dayKey {
			return true
		}
	}
	return false
}

func (p *CalendarWeek) IsStale(dayKey string, _ time.Time, now time.Time) bool {
	return !p.IsVisible(dayKey, now)
}

func (p *CalendarWeek) PurgeRange(now time.Time) Range {
	start, end := p.Bounds(now)
	return Range{
		DayFrom: start.Format(DateLayout),
		DayTo:   end.Format(DateLayout),
	}
}

// Anchor is the week key: the Monday date of the current window.
func (p *CalendarWeek) Anchor(now time.Time) string {
	start, _ := p.Bounds(now)
	return start.Format(DateLayout)
}
