//go:build unit

package window_test

import (
	"testing"
	"time"

	"lab-booking/internal/domain/window"

	"github.com/stretchr/testify/assert"
)

func TestRolling(t *testing.T) {
	p := window.NewRolling(7 * 24 * time.Hour)
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	t.Run("identifier space is the seven weekday labels", func(t *testing.T) {
		want := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
		assert.Equal(t, want, p.VisibleDays(now))
		assert.Equal(t, want, p.VisibleDays(now.Add(400*24*time.Hour)))
		assert.True(t, p.IsVisible("Sunday", now))
		assert.False(t, p.IsVisible("2024-06-10", now))
		assert.False(t, p.IsVisible("monday", now))
	})

	t.Run("expiry is measured from createdAt", func(t *testing.T) {
		createdAt := now.Add(-7 * 24 * time.Hour)
		assert.False(t, p.IsExpired(createdAt, now))
		assert.True(t, p.IsExpired(createdAt, now.Add(time.Nanosecond)))
		assert.False(t, p.IsStale("Monday", createdAt, now))
		assert.True(t, p.IsStale("Monday", createdAt.Add(-time.Second), now))
	})

	t.Run("purge range is a creation cutoff", func(t *testing.T) {
		r := p.PurgeRange(now)
		assert.False(t, r.IsDayBounded())
		assert.True(t, r.CreatedBefore.Equal(now.Add(-7*24*time.Hour)))
		assert.Empty(t, p.Anchor(now))
	})
}
