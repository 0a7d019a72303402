package numeric

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RoundMode selects how ties and fractions are resolved when quantizing.
type RoundMode int

const (
	// HalfAwayFromZero rounds ties away from zero (2.5 -> 3, -2.5 -> -3).
	HalfAwayFromZero RoundMode = iota
	// HalfEven rounds ties to the even neighbour (2.5 -> 2, 3.5 -> 4).
	HalfEven
	// Truncate drops the fraction (toward zero).
	Truncate
	// Floor rounds toward negative infinity.
	Floor
	// Ceiling rounds toward positive infinity.
	Ceiling
)

// MaxPrecision is the largest number of decimal places Round accepts.
const MaxPrecision = 15

func (m RoundMode) String() string {
	switch m {
	case HalfAwayFromZero:
		return "half_away_from_zero"
	case HalfEven:
		return "half_even"
	case Truncate:
		return "truncate"
	case Floor:
		return "floor"
	case Ceiling:
		return "ceiling"
	default:
		return fmt.Sprintf("round_mode(%d)", int(m))
	}
}

// Valid reports whether m is one of the five supported modes.
func (m RoundMode) Valid() bool {
	return m >= HalfAwayFromZero && m <= Ceiling
}

// Round rounds x to precision decimal places.
//
// The float is first converted to its shortest decimal representation, so
// 2.675 rounds half-away-from-zero to 2.68 even though its binary value is
// slightly below the tie. Platform rounding intrinsics disagree on exactly
// these cases.
func Round(x float64, precision int, mode RoundMode) (float64, error) {
	if precision < 0 || precision > MaxPrecision {
		return 0, fmt.Errorf("%w: %d (want 0..%d)", ErrInvalidPrecision, precision, MaxPrecision)
	}
	if !mode.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRoundMode, int(mode))
	}
	if !IsValid(x) {
		return Sentinel(), nil
	}
	d := roundDecimal(decimal.NewFromFloat(x), int32(precision), mode)
	f, _ := d.Float64()
	return f, nil
}

// Quantize rounds x to a multiple of increment (e.g. a tick size).
func Quantize(x, increment float64, mode RoundMode) (float64, error) {
	if !IsValid(increment) || increment <= 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidIncrement, increment)
	}
	if !mode.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRoundMode, int(mode))
	}
	if !IsValid(x) {
		return Sentinel(), nil
	}
	step := decimal.NewFromFloat(increment)
	steps := roundDecimal(decimal.NewFromFloat(x).Div(step), 0, mode)
	f, _ := steps.Mul(step).Float64()
	return f, nil
}

func roundDecimal(d decimal.Decimal, places int32, mode RoundMode) decimal.Decimal {
	switch mode {
	case HalfEven:
		return d.RoundBank(places)
	case Truncate:
		return d.Truncate(places)
	case Floor:
		return d.RoundFloor(places)
	case Ceiling:
		return d.RoundCeil(places)
	default:
		return d.Round(places)
	}
}
