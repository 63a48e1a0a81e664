// Package numfmt renders numbers with thousands separators.
package numfmt

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// Uint formats n as 1,234,567.
func Uint(n uint64) string {
	return humanize.BigComma(new(big.Int).SetUint64(n))
}

// Float formats x with a fixed number of decimals and a comma-separated
// integer part: Float(5500, 2) is "5,500.00".
func Float(x float64, decimals int) string {
	s := strconv.FormatFloat(x, 'f', decimals, 64)
	intPart, frac, hasFrac := strings.Cut(s, ".")
	sign := ""
	if strings.HasPrefix(intPart, "-") {
		sign, intPart = "-", intPart[1:]
	}
	n, ok := new(big.Int).SetString(intPart, 10)
	if !ok {
		// NaN and Inf
		return s
	}
	out := sign + humanize.BigComma(n)
	if hasFrac {
		out += "." + frac
	}
	return out
}

// Round formats x rounded to the nearest integer, halves away from zero.
func Round(x float64) string {
	return Float(math.Round(x), 0)
}
