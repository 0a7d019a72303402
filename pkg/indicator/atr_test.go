package indicator

import (
	"errors"
	"math"
	"testing"

	"github.com/mohamedkhairy/ta-engine/internal/models"
	"github.com/mohamedkhairy/ta-engine/pkg/filter"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func atrBars() []*models.Bar {
	return []*models.Bar{
		ohlcBar(0, 11, 9, 10),
		ohlcBar(1, 11, 9, 10),
		ohlcBar(2, 11, 9, 10),
		ohlcBar(3, 11, 9, 10),
		ohlcBar(4, 12, 8, 10),
	}
}

func TestTrueRange(t *testing.T) {
	tr := NewTrueRange()
	assert.Equal(t, 2, tr.Warmup())

	v, ok := tr.Update(ohlcBar(0, 11, 9, 10))
	assert.False(t, ok, "the first bar has no previous close")
	assert.True(t, math.IsNaN(v))

	v, ok = tr.Update(ohlcBar(1, 12, 9, 11))
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)

	// gap up: the previous close decides
	v, _ = tr.Update(ohlcBar(2, 15, 14, 14.5))
	assert.Equal(t, 4.0, v)
}

func TestATR(t *testing.T) {
	atr, err := NewATR(3, filter.SeedRollingMean)
	require.NoError(t, err)
	assert.Equal(t, "atr_3", atr.Name())
	assert.Equal(t, 4, atr.Warmup())

	out := Batch(atr, atrBars())
	assert.True(t, math.IsNaN(out[2]))
	assert.InDelta(t, 2.0, out[3], 1e-12)
	assert.InDelta(t, 8.0/3.0, out[4], 1e-12)
}

func TestNATR(t *testing.T) {
	natr, err := NewNATR(3, filter.SeedRollingMean)
	require.NoError(t, err)
	assert.Equal(t, "natr_3", natr.Name())

	out := Batch(natr, atrBars())
	assert.InDelta(t, 20.0, out[3], 1e-12)
}

func TestATR_MissingBar(t *testing.T) {
	atr, _ := NewATR(2, filter.SeedRollingMean)
	bars := atrBars()
	bars[3] = models.Missing("AAPL", "1m", bars[3].Timestamp)

	out := Batch(atr, bars)
	assert.InDelta(t, 2.0, out[2], 1e-12)
	assert.True(t, math.IsNaN(out[3]))
	// no previous close either
	assert.True(t, math.IsNaN(out[4]))
	assert.True(t, atr.IsReady())
}

func TestATR_InvalidPeriod(t *testing.T) {
	_, err := NewATR(0, filter.SeedRollingMean)
	assert.True(t, errors.Is(err, numeric.ErrInvalidPeriod))
}
