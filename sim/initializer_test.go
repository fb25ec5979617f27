package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShockSpec_RatePath(t *testing.T) {
	tests := []struct {
		name  string
		shock ShockSpec
		want  []float64
	}{
		{"one period", ShockSpec{Horizon: 6, Period: 3, Size: -0.5, RBar: 1}, []float64{1, 1, 0.5, 1, 1, 1}},
		{"two periods", ShockSpec{Horizon: 6, Period: 3, Size: 0.25, Length: 2, RBar: 1}, []float64{1, 1, 1.25, 1.25, 1, 1}},
		{"clipped at the terminal boundary", ShockSpec{Horizon: 5, Period: 4, Size: 0.5, Length: 3, RBar: 1}, []float64{1, 1, 1, 1.5, 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, tc.shock.Validate())
			assert.Equal(t, tc.want, tc.shock.RatePath().Values())
		})
	}
}

func TestShockSpec_Validate_RejectsInvalid(t *testing.T) {
	tests := []ShockSpec{
		{Horizon: 2, Period: 2, RBar: 1},
		{Horizon: 10, Period: 1, RBar: 1},
		{Horizon: 10, Period: 10, RBar: 1},
		{Horizon: 10, Period: 5, RBar: 0},
		{Horizon: 10, Period: 5, RBar: 1, Size: -1},
		{Horizon: 10, Period: 5, RBar: 1, Length: -1},
	}
	for _, s := range tests {
		assert.Error(t, s.Validate(), "%+v", s)
	}
}

func TestSteadyStateGuess(t *testing.T) {
	ss := &SteadyState{W: 0.8, Div: 0.2}
	g := SteadyStateGuess(4, ss)
	assert.Equal(t, []float64{0.8, 0.8, 0.8, 0.8}, g.W.Values())
	assert.Equal(t, []float64{0.2, 0.2, 0.2, 0.2}, g.Div.Values())
	assert.Equal(t, []float64{1, 1, 1, 1}, g.S.Values())
}
