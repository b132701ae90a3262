package domain

import (
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Money is a non-negative amount in a single currency, held at 2-decimal
// resolution. Rounding happens at construction, not at read time.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

func NewMoney(amount decimal.Decimal, unit currency.Unit) (Money, error) {
	if amount.IsNegative() {
		return Money{}, invariantf("money amount must be non-negative, got %s", amount)
	}

	return Money{Amount: amount.Round(2), Currency: unit}, nil
}

// ParseMoney builds a Money from the raw values a request carries.
// NaN and infinities are rejected before conversion, decimal.NewFromFloat
// panics on them.
func ParseMoney(amount float64, code string) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Money{}, invariantf("money amount must be finite, got %v", amount)
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return Money{}, invariantf("currency[%s] is not valid", code)
	}

	return NewMoney(decimal.NewFromFloat(amount), unit)
}

func ZeroMoney(unit currency.Unit) Money {
	return Money{Amount: decimal.Zero, Currency: unit}
}

// Add fails when the currency codes differ, amounts are never coerced
// across currencies.
func (m Money) Add(other Money) (Money, error) {
	if m.Currency.String() != other.Currency.String() {
		return Money{}, invariantf("currency mismatch: %s vs %s", m.Currency, other.Currency)
	}

	return NewMoney(m.Amount.Add(other.Amount), m.Currency)
}

// MulQuantity scales the amount by a line quantity. Quantities are
// validated positive by NewCartItem, so the result stays non-negative.
func (m Money) MulQuantity(quantity int) Money {
	return Money{
		Amount:   m.Amount.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
		Currency: m.Currency,
	}
}

func (m Money) Equal(other Money) bool {
	return m.Amount.Equal(other.Amount) && m.Currency.String() == other.Currency.String()
}
