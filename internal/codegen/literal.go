package codegen

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/aretw0/flowgen/pkg/domain"
)

// Infer renders a raw editor value as a Lua literal.
//
// Rules, first match wins: numbers (declared or parseable) pass through,
// booleans (declared or "true"/"false" in any case) are lower-cased, declared
// tables wrapped in braces pass through, anything else is double-quoted.
// An empty value is always the empty string literal, whatever its declared
// type. Quoting does not escape embedded quotes or newlines.
func Infer(raw string, declared domain.ValueType) string {
	switch {
	case raw == "":
		return `""`
	case declared == domain.TypeNumber || (declared == domain.TypeNone && isNumeric(raw)):
		return raw
	case declared == domain.TypeBoolean || (declared == domain.TypeNone && isBoolean(raw)):
		return strings.ToLower(raw)
	case declared == domain.TypeTable && strings.HasPrefix(raw, "{") && strings.HasSuffix(raw, "}"):
		return raw
	}
	return `"` + raw + `"`
}

// isNumeric reports whether raw is a complete Lua numeric literal, optionally
// negated. A leading '+' is rejected since Lua has no unary plus.
func isNumeric(raw string) bool {
	body := strings.TrimPrefix(raw, "-")
	if body == "" || body[0] == '+' || body[0] == '-' {
		return false
	}
	if hex, ok := cutHexPrefix(body); ok && !strings.ContainsAny(hex, ".pP") {
		_, err := strconv.ParseUint(hex, 16, 64)
		return err == nil || errors.Is(err, strconv.ErrRange)
	}
	f, err := strconv.ParseFloat(body, 64)
	if errors.Is(err, strconv.ErrRange) {
		return true
	}
	return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
}

func cutHexPrefix(s string) (string, bool) {
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		return rest, true
	}
	return strings.CutPrefix(s, "0X")
}

func isBoolean(raw string) bool {
	return strings.EqualFold(raw, "true") || strings.EqualFold(raw, "false")
}
