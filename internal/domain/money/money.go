package money

import (
	"fmt"

	"travel-booking/internal/pkg/errs"
)

// Money is an amount in the smallest currency unit (whole rupiah).
type Money struct {
	amount int64
}

func New(amount int64) (Money, error) {
	if amount < 0 {
		return Money{}, errs.NewValidationError("amount", "cannot be negative")
	}
	return Money{amount: amount}, nil
}

func MustNew(amount int64) Money {
	m, err := New(amount)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Amount() int64 {
	return m.amount
}

func (m Money) Times(n int) Money {
	return Money{amount: m.amount * int64(n)}
}

func (m Money) Add(other Money) Money {
	return Money{amount: m.amount + other.amount}
}

func (m Money) IsZero() bool {
	return m.amount == 0
}

func (m Money) String() string {
	return fmt.Sprintf("Rp%d", m.amount)
}
