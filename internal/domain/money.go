package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

const moneyPlaces = 2

// Money is a cost in the desk's currency, kept at cent precision.
type Money struct {
	decimal.Decimal
}

// NewMoney rounds d to cents.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(moneyPlaces)}
}

// ParseMoney reads decimal text such as "25.50" or "25,50". Blank or
// unparseable input yields ok=false.
func ParseMoney(text string) (Money, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Money{}, false
	}
	if !strings.Contains(text, ".") {
		text = strings.Replace(text, ",", ".", 1)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return Money{}, false
	}
	return NewMoney(d), true
}

// MarshalJSON writes the amount as a bare JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(moneyPlaces)), nil
}

// UnmarshalJSON accepts numbers and quoted numbers.
func (m *Money) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	*m = NewMoney(d)
	return nil
}
