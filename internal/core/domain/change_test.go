package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxImpact(t *testing.T) {
	tests := []struct {
		name string
		a, b ChangeImpact
		want ChangeImpact
	}{
		{"low vs high", ImpactLow, ImpactHigh, ImpactHigh},
		{"high vs low", ImpactHigh, ImpactLow, ImpactHigh},
		{"medium vs medium", ImpactMedium, ImpactMedium, ImpactMedium},
		{"low vs medium", ImpactLow, ImpactMedium, ImpactMedium},
		{"unknown vs low", ChangeImpact("bogus"), ImpactLow, ImpactLow},
		{"unknown vs unknown keeps first", ChangeImpact("a"), ChangeImpact("b"), ChangeImpact("a")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaxImpact(tt.a, tt.b))
		})
	}
}

func TestChangeTypeString(t *testing.T) {
	assert.Equal(t, "multiple", ChangeTypeMultiple.String())
	assert.Equal(t, "added", ChangeTypeAdded.String())
}
