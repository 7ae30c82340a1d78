package account

import (
	"math"
	"strconv"
	"strings"
)

// FormatSaldo renders a balance the way the JVM prints a double: at least one
// fractional digit, and scientific notation outside [1e-3, 1e7).
func FormatSaldo(saldo float64) string {
	switch {
	case math.IsNaN(saldo):
		return "NaN"
	case math.IsInf(saldo, 1):
		return "Infinity"
	case math.IsInf(saldo, -1):
		return "-Infinity"
	}

	abs := math.Abs(saldo)
	if abs == 0 || (abs >= 1e-3 && abs < 1e7) {
		s := strconv.FormatFloat(saldo, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		return s
	}

	// 'E' gives "1.5E+07"; the JVM form is "1.5E7".
	mantissa, exponent, _ := strings.Cut(strconv.FormatFloat(saldo, 'E', -1, 64), "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	sign := ""
	if strings.HasPrefix(exponent, "-") {
		sign = "-"
	}
	exponent = strings.TrimLeft(exponent, "+-0")
	if exponent == "" {
		exponent = "0"
	}
	return mantissa + "E" + sign + exponent
}
