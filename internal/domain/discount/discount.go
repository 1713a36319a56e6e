// Package discount resolves promo codes to discount amounts.
//
// The business rule is deliberately a stub: every recognized code grants the
// same fixed amount. Real code-to-rule resolution (per-code values, expiry,
// minimum order) is a known follow-up; only the recognition step is real.
package discount

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidCode is returned when a promo code is not recognized.
var ErrInvalidCode = errors.New("invalid promo code")

// Fixed discount granted by every recognized code, in whole currency units.
var fixedAmount = decimal.NewFromInt(30000)

// Codes reports membership of a promo code in the known-code set.
type Codes interface {
	Contains(code string) bool
}

// Applied is the outcome of resolving a promo code against an order total.
type Applied struct {
	Code        string
	Amount      decimal.Decimal
	Description string
}

// Service validates promo codes and computes the discount they grant.
type Service struct {
	codes Codes
}

// NewService creates a discount Service over the given code set.
func NewService(codes Codes) *Service {
	return &Service{codes: codes}
}

// Apply resolves a code against the order subtotal. The granted amount is
// capped at the subtotal so the final total never goes negative.
func (s *Service) Apply(code string, subtotal decimal.Decimal) (*Applied, error) {
	if code == "" || !s.codes.Contains(code) {
		return nil, ErrInvalidCode
	}

	amount := decimal.Min(fixedAmount, subtotal)
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return &Applied{
		Code:        code,
		Amount:      amount,
		Description: "Promo code discount",
	}, nil
}
