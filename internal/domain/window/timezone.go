package window

import (
	"fmt"
	"time"
)

// LoadLocation resolves primary, then fallback, and errors only when neither
// zone is known.
func LoadLocation(primary, fallback string) (*time.Location, error) {
	loc, primaryErr := time.LoadLocation(primary)
	if primaryErr == nil {
		return loc, nil
	}
	if fallback == "" {
		return nil, fmt.Errorf("window: resolve timezone %q: %w", primary, primaryErr)
	}
	loc, fallbackErr := time.LoadLocation(fallback)
	if fallbackErr == nil {
		return loc, nil
	}
	return nil, fmt.Errorf("window: resolve timezone %q (fallback %q): %w", primary, fallback, fallbackErr)
}
