package numeric

import "errors"

// Construction and parameter errors shared by every package of the engine.
// Callers match them with errors.Is; constructors wrap them with the
// offending value.
var (
	ErrInvalidPeriod     = errors.New("invalid period")
	ErrInvalidAlpha      = errors.New("invalid smoothing coefficient")
	ErrInvalidMultiplier = errors.New("invalid multiplier")
	ErrInvalidPrecision  = errors.New("invalid rounding precision")
	ErrInvalidRoundMode  = errors.New("invalid rounding mode")
	ErrInvalidIncrement  = errors.New("invalid price increment")
	ErrLengthMismatch    = errors.New("input length mismatch")
	ErrInvalidSeedMode   = errors.New("invalid seed mode")
	ErrInvalidKind       = errors.New("invalid kind")
	ErrInvalidFactor     = errors.New("invalid factor")
)
