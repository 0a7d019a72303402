package indicator

import (
	"fmt"
	"strings"

	"github.com/mohamedkhairy/ta-engine/pkg/filter"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
	"github.com/mohamedkhairy/ta-engine/pkg/series"
	"github.com/mohamedkhairy/ta-engine/pkg/window"
)

// MAKind is the closed set of moving-average variants an indicator can be
// configured with. The variant is resolved once, at construction.
type MAKind int

const (
	SMA MAKind = iota
	EMA
	RMA
	WMA
)

func (k MAKind) String() string {
	switch k {
	case SMA:
		return "sma"
	case EMA:
		return "ema"
	case RMA:
		return "rma"
	case WMA:
		return "wma"
	default:
		return fmt.Sprintf("ma_kind(%d)", int(k))
	}
}

// ParseMAKind accepts the String form, case-insensitively.
func ParseMAKind(s string) (MAKind, error) {
	switch strings.ToLower(s) {
	case "sma":
		return SMA, nil
	case "ema":
		return EMA, nil
	case "rma", "wilder":
		return RMA, nil
	case "wma":
		return WMA, nil
	}
	return 0, fmt.Errorf("%w: unknown moving average %q", numeric.ErrInvalidKind, s)
}

// NewSmoother builds the stage for kind. The seed mode only applies to the
// recursive kinds.
func NewSmoother(kind MAKind, period int, seed filter.SeedMode) (series.Stage, error) {
	switch kind {
	case SMA:
		return window.NewMean(period)
	case EMA:
		return filter.NewEMA(period, seed)
	case RMA:
		return filter.NewRMA(period, seed)
	case WMA:
		return window.NewWMA(period)
	default:
		return nil, fmt.Errorf("%w: moving average kind %d", numeric.ErrInvalidKind, int(kind))
	}
}
