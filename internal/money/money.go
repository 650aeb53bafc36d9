// Package money parses and formats amounts. Amounts are stored as integer cents.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmpty        = errors.New("amount is empty")
	ErrSyntax       = errors.New("amount is not a number or expression")
	ErrDivideByZero = errors.New("amount divides by zero")
	ErrTooLarge     = errors.New("amount is too large")
)

var (
	hundred = decimal.NewFromInt(100)
	// MaxAmount is the largest magnitude that still fits in int64 cents.
	MaxAmount = decimal.NewFromInt(math.MaxInt64).Shift(-2)
)

// CheckRange returns ErrTooLarge when d cannot be stored as cents.
func CheckRange(d decimal.Decimal) error {
	if d.Abs().GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: %s", ErrTooLarge, d.String())
	}
	return nil
}

// Eval evaluates a simple arithmetic expression such as "12.5+3*2".
// Operators are + - * / applied strictly left to right; the result is
// rounded to cents.
func Eval(expr string) (decimal.Decimal, error) {
	expr = strings.ReplaceAll(strings.TrimSpace(expr), " ", "")
	if expr == "" {
		return decimal.Zero, ErrEmpty
	}

	var (
		acc     decimal.Decimal
		op      byte = '+'
		start        = 0
		operand      = false
	)
	apply := func(tok string) error {
		n, err := decimal.NewFromString(tok)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrSyntax, tok)
		}
		switch op {
		case '+':
			acc = acc.Add(n)
		case '-':
			acc = acc.Sub(n)
		case '*':
			acc = acc.Mul(n)
		case '/':
			if n.IsZero() {
				return ErrDivideByZero
			}
			acc = acc.DivRound(n, 8)
		}
		return nil
	}

	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if !strings.ContainsRune("+-*/", rune(c)) {
			operand = true
			continue
		}
		// a leading sign belongs to the number
		if !operand && c == '-' && i == start {
			continue
		}
		if !operand {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrSyntax, expr)
		}
		if err := apply(expr[start:i]); err != nil {
			return decimal.Zero, err
		}
		op, start, operand = c, i+1, false
	}
	if !operand {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrSyntax, expr)
	}
	if err := apply(expr[start:]); err != nil {
		return decimal.Zero, err
	}
	acc = acc.Round(2)
	if err := CheckRange(acc); err != nil {
		return decimal.Zero, err
	}
	return acc, nil
}

// ParseCents evaluates expr and converts it to cents.
func ParseCents(expr string) (int64, error) {
	d, err := Eval(expr)
	if err != nil {
		return 0, err
	}
	return d.Mul(hundred).IntPart(), nil
}

// FromCents converts cents to a decimal.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// Format renders cents as "12.50". The symbol is prefixed when non-empty.
func Format(cents int64, symbol string) string {
	s := FromCents(cents).StringFixed(2)
	if symbol == "" {
		return s
	}
	if strings.HasPrefix(s, "-") {
		return "-" + symbol + s[1:]
	}
	return symbol + s
}
