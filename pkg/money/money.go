// Package money разбирает и форматирует денежные суммы в локальном формате (1.234,56).
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places — количество знаков после запятой для всех денежных значений.
const Places = 2

const currencyPrefix = "R$"

var ErrInvalidFormat = errors.New("invalid money format")

// ParseError описывает причину, по которой строку не удалось разобрать.
type ParseError struct {
	Input  string
	Reason string
}

func (p *ParseError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrInvalidFormat.Error(), p.Input, p.Reason)
}

func (p *ParseError) Unwrap() error {
	return ErrInvalidFormat
}

// Parse переводит строку с суммой в decimal.
// Поддерживаются "1.234,56", "50,00", "50", "R$ 10,5" и канонический вид "1234.56".
// Точка считается десятичным разделителем только если запятой нет и после точки 1-2 цифры,
// иначе точки трактуются как разделители тысяч и должны стоять через каждые 3 цифры.
func Parse(input string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(input)
	raw = strings.TrimSpace(strings.TrimPrefix(raw, currencyPrefix))
	if raw == "" {
		return decimal.Zero, &ParseError{Input: input, Reason: "empty value"}
	}

	negative := false
	if strings.HasPrefix(raw, "-") {
		negative = true
		raw = strings.TrimSpace(raw[1:])
	}

	intPart, fracPart, reason := splitParts(raw)
	if reason != "" {
		return decimal.Zero, &ParseError{Input: input, Reason: reason}
	}

	if intPart == "" || !isDigits(intPart) {
		return decimal.Zero, &ParseError{Input: input, Reason: "integer part must contain digits only"}
	}
	if !isDigits(fracPart) {
		return decimal.Zero, &ParseError{Input: input, Reason: "fraction part must contain digits only"}
	}
	if len(fracPart) > Places {
		return decimal.Zero, &ParseError{Input: input, Reason: fmt.Sprintf("at most %d decimal places allowed", Places)}
	}

	canonical := intPart
	if fracPart != "" {
		canonical += "." + fracPart
	}

	d, err := decimal.NewFromString(canonical)
	if err != nil {
		return decimal.Zero, &ParseError{Input: input, Reason: err.Error()}
	}

	if negative {
		d = d.Neg()
	}

	return d, nil
}

// Format возвращает сумму в виде "R$ 1.234,56".
func Format(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(Places)
	dot := strings.IndexByte(fixed, '.')
	intPart, fracPart := fixed[:dot], fixed[dot+1:]

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}

	return fmt.Sprintf("%s%s %s,%s", sign, currencyPrefix, groupThousands(intPart), fracPart)
}

// Round приводит значение к точности хранения.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

func splitParts(raw string) (string, string, string) {
	switch strings.Count(raw, ",") {
	case 0:
	case 1:
		idx := strings.IndexByte(raw, ',')
		intPart, fracPart := raw[:idx], raw[idx+1:]
		if fracPart == "" {
			return "", "", "missing digits after decimal comma"
		}
		if strings.Contains(fracPart, ".") {
			return "", "", "thousands separator after decimal comma"
		}
		ungrouped, ok := ungroup(intPart)
		if !ok {
			return "", "", "misplaced thousands separator"
		}
		return ungrouped, fracPart, ""
	default:
		return "", "", "more than one decimal comma"
	}

	if strings.Count(raw, ".") == 1 {
		idx := strings.IndexByte(raw, '.')
		if digits := len(raw) - idx - 1; digits == 1 || digits == 2 {
			return raw[:idx], raw[idx+1:], ""
		}
	}

	ungrouped, ok := ungroup(raw)
	if !ok {
		return "", "", "misplaced thousands separator"
	}

	return ungrouped, "", ""
}

func ungroup(s string) (string, bool) {
	if !strings.Contains(s, ".") {
		return s, true
	}

	groups := strings.Split(s, ".")
	if len(groups[0]) == 0 || len(groups[0]) > 3 {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return "", false
		}
	}

	return strings.Join(groups, ""), true
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}

	return b.String()
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
