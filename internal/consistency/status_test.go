package consistency_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/miraedance/atelier/internal/consistency"
)

func TestCanonicalStatus(t *testing.T) {
	assert.Equal(t, consistency.StatusProcessing, consistency.CanonicalStatus("in_production"))
	assert.Equal(t, consistency.StatusCompleted, consistency.CanonicalStatus("delivered"))
	assert.Equal(t, consistency.StatusPending, consistency.CanonicalStatus("pending"))
	assert.Equal(t, "weird", consistency.CanonicalStatus("weird"))
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "processing", "shipped", "completed", "cancelled", "in_production", "delivered"} {
		assert.True(t, consistency.ValidStatus(s), s)
	}
	assert.False(t, consistency.ValidStatus("refunded"))
	assert.False(t, consistency.ValidStatus(""))
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{"pending", "confirmed", true},
		{"pending", "shipped", true}, // forward jumps allowed
		{"confirmed", "pending", false},
		{"processing", "processing", false},
		{"shipped", "completed", true},
		{"completed", "cancelled", false}, // terminal
		{"cancelled", "pending", false},   // terminal
		{"pending", "cancelled", true},
		{"shipped", "cancelled", true},
		{"in_production", "shipped", true},  // legacy label normalized first
		{"pending", "delivered", true},      // legacy target normalized first
		{"pending", "refunded", false},      // unknown target
		{"refunded", "completed", false},    // unknown source
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, consistency.CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, consistency.IsTerminal("completed"))
	assert.True(t, consistency.IsTerminal("cancelled"))
	assert.True(t, consistency.IsTerminal("delivered"))
	assert.False(t, consistency.IsTerminal("shipped"))
}
