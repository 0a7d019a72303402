package indicator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mohamedkhairy/ta-engine/pkg/filter"
	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
)

// formatName builds names like "ema_20" or "bollinger_20_2". Non-close
// sources are appended ("sma_10_hl2").
func formatName(prefix string, source Source, params ...any) string {
	parts := make([]string, 0, len(params)+2)
	parts = append(parts, prefix)
	for _, p := range params {
		switch v := p.(type) {
		case float64:
			parts = append(parts, strconv.FormatFloat(v, 'f', -1, 64))
		default:
			parts = append(parts, fmt.Sprint(v))
		}
	}
	if source != Close {
		parts = append(parts, source.String())
	}
	return strings.Join(parts, "_")
}

// withSeed appends a non-default seed mode ("ema_10_first_sample").
func withSeed(name string, seed filter.SeedMode) string {
	if seed == filter.SeedRollingMean {
		return name
	}
	return name + "_" + seed.String()
}

// kindPrefix names a band or smoother by its moving-average kind when the
// kind is not the SMA default ("keltner_ema").
func kindPrefix(prefix string, kind MAKind) string {
	if kind == SMA {
		return prefix
	}
	return prefix + "_" + kind.String()
}

func checkPeriod(what string, period, least int) error {
	if period < least {
		return fmt.Errorf("%w: %s period must be at least %d, got %d", numeric.ErrInvalidPeriod, what, least, period)
	}
	return nil
}

func checkMultiplier(what string, k float64) error {
	if !numeric.IsValid(k) || k <= 0 {
		return fmt.Errorf("%w: %s multiplier must be positive, got %v", numeric.ErrInvalidMultiplier, what, k)
	}
	return nil
}
