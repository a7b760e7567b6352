package payment

import (
	"fmt"
	"strings"
)

// ParseMajorUnits converts a decimal major-unit string from the provider
// ("999.00") into minor units (99900). Parsing is exact integer arithmetic;
// floats would drift on amounts like 0.29.
func ParseMajorUnits(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" || strings.HasPrefix(value, "-") {
		return 0, fmt.Errorf("invalid amount %q", value)
	}

	whole, frac, _ := strings.Cut(value, ".")
	if whole == "" || len(frac) > 2 {
		return 0, fmt.Errorf("invalid amount %q", value)
	}
	// Pad to two decimal places: "999.9" means 99990.
	for len(frac) < 2 {
		frac += "0"
	}

	var minor int64
	for _, r := range whole + frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("invalid amount %q", value)
		}
		minor = minor*10 + int64(r-'0')
		if minor < 0 {
			return 0, fmt.Errorf("amount overflow %q", value)
		}
	}
	return minor, nil
}

// FormatMajorUnits renders minor units as the two-decimal string the provider
// expects ("99900" -> "999.00").
func FormatMajorUnits(minor int64) string {
	return fmt.Sprintf("%d.%02d", minor/100, minor%100)
}
