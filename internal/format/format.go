// Package format turns usage figures into display strings.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Magnitude thresholds for Tokens, largest first.
var tokenUnits = []struct {
	suffix string
	min    int64
	shift  int32
}{
	{suffix: "B", min: 1_000_000_000, shift: -9},
	{suffix: "M", min: 1_000_000, shift: -6},
	{suffix: "K", min: 1_000, shift: -3},
}

// Tokens renders a token count with a B, M or K suffix and one decimal place.
// Values below 1000 are rendered as plain integers. A value just under a
// threshold keeps the smaller unit, so 999999 renders as "1000.0K".
func Tokens(n int64) string {
	for _, u := range tokenUnits {
		if n >= u.min {
			return decimal.NewFromInt(n).Shift(u.shift).StringFixed(1) + u.suffix
		}
	}
	return strconv.FormatInt(n, 10)
}

// CostCents renders an amount of cents as dollars with two decimals.
// Negative amounts keep the sign after the currency symbol: "$-5.00".
func CostCents(cents int64) string {
	return "$" + decimal.NewFromInt(cents).Shift(-2).StringFixed(2)
}

// modelPrefix is stripped from model identifiers before display.
const modelPrefix = "claude-"

// ModelName turns a model identifier into a display name:
// "claude-opus-4-6" becomes "Opus 4 6".
func ModelName(model string) string {
	parts := strings.Split(strings.TrimPrefix(model, modelPrefix), "-")
	return strings.Join(lo.Map(parts, func(p string, _ int) string {
		return capitalize(p)
	}), " ")
}

// capitalize upper-cases the first rune and leaves the rest untouched.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Duration renders a session length as "2h 05m", "14m 03s" or "42s".
// Negative durations render as "0s".
func Duration(d time.Duration) string {
	d = max(d, 0).Round(time.Second)

	h := int64(d / time.Hour)
	m := int64(d % time.Hour / time.Minute)
	s := int64(d % time.Minute / time.Second)

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
