//go:build unit

package slot_test

import (
	"testing"

	"lab-booking/internal/domain/slot"

	"github.com/stretchr/testify/assert"
)

func TestAll(t *testing.T) {
	t.Run("returns labels in display order", func(t *testing.T) {
		assert.Equal(t, []string{"08~12", "13~17", "18~22", "22以後"}, slot.All())
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		got := slot.All()
		got[0] = "tampered"
		assert.Equal(t, "08~12", slot.All()[0])
	})
}

func TestIsValid(t *testing.T) {
	cases := []struct {
		label string
		want  bool
	}{
		{label: "08~12", want: true},
		{label: "22以後", want: true},
		{label: "08-12", want: false},
		{label: " 08~12", want: false},
		{label: "", want: false},
	}
	for _, c := range cases {
		t.Run(c.label, func(t *testing.T) {
			assert.Equal(t, c.want, slot.IsValid(c.label))
		})
	}
}
