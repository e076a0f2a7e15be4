// Package fields holds the pure predicates and coercions shared by the
// profile and request builders. Nothing here returns an error: a value that
// fails its predicate is reported as the empty string.
package fields

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// Accepted gender values.
const (
	GenderMale   = "Masculino"
	GenderFemale = "Feminino"
)

// Domain tags, in go-playground/validator syntax.
const (
	AgeRule    = "gte=0,lte=150"
	HeightRule = "gte=50,lte=300"
	WeightRule = "gte=20,lte=500"
	GenderRule = "oneof=" + GenderMale + " " + GenderFemale
)

// Request parameter bounds.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0
	MinTopP        = 0.0
	MaxTopP        = 1.0
	MinMaxTokens   = 1
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator returns the shared validator instance so that callers checking
// struct tags use the same configuration as the field predicates.
func Validator() *validator.Validate {
	return validate
}

// ToString renders v as a string. nil renders as "".
// Rendering is idempotent: ToString(ToString(v)) == ToString(v).
func ToString(v any) string {
	if v == nil {
		return ""
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return s
}

// Truthy reports whether v would be considered set by a form: nil, "", false
// and numeric zero are not.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return ToString(v) != ""
	}
	return f != 0 && !math.IsNaN(f)
}

// TextOrEmpty returns the string form of v when it is truthy and "" otherwise.
func TextOrEmpty(v any) string {
	if !Truthy(v) {
		return ""
	}
	return ToString(v)
}

// ValidateAge accepts v when its leading integer lies in [0, 150].
func ValidateAge(v any) string {
	s := ToString(v)
	n, ok := LeadingInt(s)
	if !ok || validate.Var(n, AgeRule) != nil {
		return ""
	}
	return s
}

// ValidateHeight accepts v (centimetres) when its leading number lies in [50, 300].
func ValidateHeight(v any) string {
	return validateFloat(v, HeightRule)
}

// ValidateWeight accepts v (kilograms) when its leading number lies in [20, 500].
func ValidateWeight(v any) string {
	return validateFloat(v, WeightRule)
}

func validateFloat(v any, rule string) string {
	s := ToString(v)
	f, ok := LeadingFloat(s)
	if !ok || validate.Var(f, rule) != nil {
		return ""
	}
	return s
}

// ValidateGender accepts exactly "Masculino" or "Feminino".
func ValidateGender(v string) string {
	if validate.Var(v, GenderRule) != nil {
		return ""
	}
	return v
}

// ClampTemperature saturates t into [0, 2]. NaN maps to 0.
func ClampTemperature(t float64) float64 {
	return clamp(t, MinTemperature, MaxTemperature)
}

// ClampTopP saturates p into [0, 1]. NaN maps to 0.
func ClampTopP(p float64) float64 {
	return clamp(p, MinTopP, MaxTopP)
}

// ClampMaxTokens raises n to at least 1.
func ClampMaxTokens(n int) int {
	return max(MinMaxTokens, n)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// LeadingInt parses the longest integer prefix of s after leading
// whitespace, so "30 anos" yields 30 and "anos" fails. A 0x or 0X prefix
// selects hexadecimal, so "0x1e" yields 30.
func LeadingInt(s string) (int64, bool) {
	s = trimLeadingSpace(s)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	base, digits := 10, isDigit
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		base, digits = 16, isHexDigit
		s = s[2:]
	}
	end := 0
	for end < len(s) && digits(s[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], base, 64)
	if err != nil {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// LeadingFloat parses the longest decimal floating point prefix of s after
// leading whitespace, so "175cm" yields 175 and "1.7e2x" yields 170.
func LeadingFloat(s string) (float64, bool) {
	s = trimLeadingSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	mantissa := 0
	for end < len(s) && isDigit(s[end]) {
		end++
		mantissa++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
			mantissa++
		}
	}
	if mantissa == 0 {
		return 0, false
	}
	if end < len(s) && (s[end] == 'e' || s[end] == 'E') {
		exp := end + 1
		if exp < len(s) && (s[exp] == '+' || s[exp] == '-') {
			exp++
		}
		start := exp
		for exp < len(s) && isDigit(s[exp]) {
			exp++
		}
		if exp > start {
			end = exp
		}
	}
	f, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// trimLeadingSpace drops leading Unicode white space and the byte order mark.
func trimLeadingSpace(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
}
