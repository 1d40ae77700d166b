package model

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is an amount in cents. All price arithmetic stays integral; the
// decimal form only exists on the wire.
type Money int64

var ErrInvalidMoney = errors.New("invalid money amount")

// ParseMoney parses a decimal string such as "10", "5.5" or "25.50".
// More than two fraction digits are rejected rather than rounded.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidMoney
	}
	neg := false
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		s = s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" && (!hasFrac || frac == "") {
		return 0, ErrInvalidMoney
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("%w: at most two decimal places allowed", ErrInvalidMoney)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	if whole == "" {
		whole = "0"
	}
	if !digitsOnly(whole) || !digitsOnly(frac) {
		return 0, ErrInvalidMoney
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || units > (math.MaxInt64-99)/100 {
		return 0, ErrInvalidMoney
	}
	cents, _ := strconv.ParseInt(frac, 10, 64)
	total := units*100 + cents
	if neg {
		total = -total
	}
	return Money(total), nil
}

func digitsOnly(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Cents builds a Money from a cent count.
func Cents(c int64) Money { return Money(c) }

// MulChecked multiplies by a non-negative quantity and reports false on
// int64 overflow.
func (m Money) MulChecked(qty int) (Money, bool) {
	if qty < 0 || m < 0 {
		return 0, false
	}
	if qty != 0 && int64(m) > math.MaxInt64/int64(qty) {
		return 0, false
	}
	return m * Money(qty), true
}

// AddChecked adds two non-negative amounts and reports false on overflow.
func (m Money) AddChecked(o Money) (Money, bool) {
	if m < 0 || o < 0 || int64(m) > math.MaxInt64-int64(o) {
		return 0, false
	}
	return m + o, true
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON renders the amount as a JSON number with two fraction digits.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}
	v, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// UnmarshalParam lets gin bind Money from multipart and query forms.
func (m *Money) UnmarshalParam(param string) error {
	v, err := ParseMoney(param)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
