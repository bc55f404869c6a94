package gateway

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FloatToWire converts a price or size into Hyperliquid's wire format: a
// decimal string with at most 8 fractional digits and no trailing zeros.
// Values that lose precision at 8 decimals are rejected rather than silently
// rounded, matching the reference SDK behavior.
func FloatToWire(x float64) (string, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "", fmt.Errorf("value %v is not representable", x)
	}
	rounded := strconv.FormatFloat(x, 'f', 8, 64)
	back, err := strconv.ParseFloat(rounded, 64)
	if err != nil {
		return "", err
	}
	if math.Abs(back-x) >= 1e-12 {
		return "", fmt.Errorf("float_to_wire causes rounding: %v", x)
	}
	out := strings.TrimRight(rounded, "0")
	out = strings.TrimRight(out, ".")
	if out == "" || out == "-" {
		out = "0"
	}
	// normalize -0
	if out == "-0" {
		out = "0"
	}
	return out, nil
}
