package integration

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestDeriveSelectionRange(t *testing.T) {
	tests := []struct {
		name        string
		min, max    any
		count       int
		expectedMin int
		expectedMax int
	}{
		{"unset uses modifier count", nil, nil, 4, 0, 4},
		{"zero max uses modifier count", 0, 0, 3, 0, 3},
		{"negative max uses modifier count", 1, -2, 5, 1, 5},
		{"max raised to min", 2, 1, 5, 2, 2},
		{"configured range kept", 1, 3, 5, 1, 3},
		{"no modifiers still allows one", nil, nil, 0, 0, 1},
		{"negative min floored", -3, 2, 4, 0, 2},
		{"pointer values", intPtr(1), intPtr(2), 4, 1, 2},
		{"nil pointers", (*int)(nil), (*int)(nil), 2, 0, 2},
		{"numeric strings", "2", "3.0", 4, 2, 3},
		{"garbage strings", "x", "y", 2, 0, 2},
		{"booleans unset", true, false, 2, 0, 2},
		{"floats truncated", 1.9, 2.7, 4, 1, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax := DeriveSelectionRange(tt.min, tt.max, tt.count)
			assert.Equal(t, tt.expectedMin, gotMin)
			assert.Equal(t, tt.expectedMax, gotMax)
			assert.GreaterOrEqual(t, gotMax, gotMin)
			assert.GreaterOrEqual(t, gotMax, 1)
		})
	}
}
