package numeric

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound_Modes(t *testing.T) {
	tests := []struct {
		x         float64
		precision int
		mode      RoundMode
		want      float64
	}{
		{2.5, 0, HalfAwayFromZero, 3},
		{-2.5, 0, HalfAwayFromZero, -3},
		{2.5, 0, HalfEven, 2},
		{3.5, 0, HalfEven, 4},
		{-2.5, 0, HalfEven, -2},
		{2.675, 2, HalfAwayFromZero, 2.68},
		{2.665, 2, HalfEven, 2.66},
		{2.675, 2, HalfEven, 2.68},
		{1.239, 2, Truncate, 1.23},
		{-1.239, 2, Truncate, -1.23},
		{1.231, 2, Ceiling, 1.24},
		{-1.239, 2, Ceiling, -1.23},
		{1.239, 2, Floor, 1.23},
		{-1.231, 2, Floor, -1.24},
		{100.0, 4, HalfEven, 100.0},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			got, err := Round(tt.x, tt.precision, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "Round(%v, %d, %s)", tt.x, tt.precision, tt.mode)
		})
	}
}

func TestRound_InvalidArguments(t *testing.T) {
	_, err := Round(1.5, -1, HalfEven)
	assert.True(t, errors.Is(err, ErrInvalidPrecision))

	_, err = Round(1.5, MaxPrecision+1, HalfEven)
	assert.True(t, errors.Is(err, ErrInvalidPrecision))

	_, err = Round(1.5, 2, RoundMode(99))
	assert.True(t, errors.Is(err, ErrInvalidRoundMode))
}

func TestRound_SentinelPassesThrough(t *testing.T) {
	got, err := Round(Sentinel(), 2, Floor)
	require.NoError(t, err)
	assert.True(t, IsSentinel(got))
}

func TestQuantize(t *testing.T) {
	tests := []struct {
		name      string
		x         float64
		increment float64
		mode      RoundMode
		want      float64
	}{
		{"quarter tick tie away", 101.125, 0.25, HalfAwayFromZero, 101.25},
		{"quarter tick tie even", 101.125, 0.25, HalfEven, 101.0},
		{"tenth floor", 0.19, 0.1, Floor, 0.1},
		{"tenth ceiling", 0.11, 0.1, Ceiling, 0.2},
		{"five truncate negative", -17, 5, Truncate, -15},
		{"exact multiple", 0.3, 0.1, HalfEven, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Quantize(tt.x, tt.increment, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Quantize(1, 0, HalfEven)
	assert.True(t, errors.Is(err, ErrInvalidIncrement))
	_, err = Quantize(1, -0.5, HalfEven)
	assert.True(t, errors.Is(err, ErrInvalidIncrement))
}
