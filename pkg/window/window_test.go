package window

import (
	"errors"
	"math"
	"testing"

	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
	"github.com/mohamedkhairy/ta-engine/pkg/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ series.Stage = (*Mean)(nil)
	_ series.Stage = (*Sum)(nil)
	_ series.Stage = (*Variance)(nil)
	_ series.Stage = (*MeanDeviation)(nil)
	_ series.Stage = (*Median)(nil)
	_ series.Stage = (*Extreme)(nil)
	_ series.Stage = (*Lag)(nil)
	_ series.Stage = (*WMA)(nil)
	_ series.Stage = (*Regression)(nil)
)

func TestWindow_PushEvicts(t *testing.T) {
	w, err := New(2)
	require.NoError(t, err)

	_, evicted := w.Push(1)
	assert.False(t, evicted)
	w.Push(2)
	assert.True(t, w.Full())

	old, evicted := w.Push(3)
	assert.True(t, evicted)
	assert.Equal(t, 1.0, old)
	assert.Equal(t, []float64{2, 3}, w.Values())
	assert.Equal(t, 2.0, w.Oldest())
	assert.Equal(t, 3.0, w.Newest())
	assert.True(t, numeric.IsSentinel(w.At(2)))
}

func TestWindow_InvalidCounter(t *testing.T) {
	w, _ := New(2)
	w.Push(math.Inf(-1))
	w.Push(1)
	assert.True(t, w.Full())
	assert.False(t, w.Valid())
	assert.Equal(t, 1, w.Invalid())
	assert.True(t, numeric.IsSentinel(w.Oldest()), "infinities are stored as the sentinel")

	w.Push(2)
	assert.True(t, w.Valid())
	assert.Equal(t, 0, w.Invalid())
}

func TestWindow_ResetAndClone(t *testing.T) {
	w, _ := New(3)
	w.Push(1)
	w.Push(2)

	c := w.Clone()
	w.Reset()
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, 3, w.Cap())
	assert.Equal(t, []float64{1, 2}, c.Values())

	c.Push(3)
	c.Push(4)
	assert.Equal(t, []float64{2, 3, 4}, c.Values())
	assert.Equal(t, 0, w.Len())
}

func TestNew_InvalidCapacity(t *testing.T) {
	_, err := New(0)
	assert.True(t, errors.Is(err, numeric.ErrInvalidPeriod))
}
