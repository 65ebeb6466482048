package slot

// labels is the fixed set of bookable time ranges within a day, in display order.
var labels = [...]string{"08~12", "13~17", "18~22", "22以後"}

// All returns the catalog labels in display order. The result is a copy.
func All() []string {
	out := make([]string, len(labels))
	copy(out, labels[:])
	return out
}

// IsValid reports whether label is one of the catalog slots.
func IsValid(label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
