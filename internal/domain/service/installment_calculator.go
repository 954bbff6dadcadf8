package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cuotakiwi/quote-service/internal/domain/model"
	"github.com/cuotakiwi/quote-service/pkg/money"
)

// growthScale bounds the precision of (1+tcem)^n. The exact power of a
// 20-digit rate grows to hundreds of digits without changing the payment.
const growthScale = 24

var one = decimal.NewFromInt(1)

// Installment is a monthly payment and the total paid over the term.
type Installment struct {
	MonthlyPayment decimal.Decimal
	TotalPayment   decimal.Decimal
}

// ---------------------------------------------------------------------------
// InstallmentCalculator – regular (amortized) and campaign (interest-free) plans
// ---------------------------------------------------------------------------

// InstallmentCalculator prices installment plans. Monthly payments are always
// rounded up to scale decimal places, and the total is derived from the
// rounded payment so that total == monthly * term holds exactly.
type InstallmentCalculator struct {
	scale int32
}

// NewInstallmentCalculator returns a calculator rounding to scale places.
func NewInstallmentCalculator(scale int32) *InstallmentCalculator {
	return &InstallmentCalculator{scale: scale}
}

// Scale returns the rounding scale.
func (c *InstallmentCalculator) Scale() int32 { return c.scale }

// Regular computes the fixed monthly payment of an amortizing loan:
//
//	tcem      = (1 + tea/100)^(1/12) - 1 + insuranceLoading
//	g         = (1 + tcem)^n
//	base      = P * tcem * g / (g - 1)          (P / n when tcem == 0)
//	surcharge = P * tcem * surchargeRate
//	monthly   = ceil(base + surcharge)
//
// The surcharge is charged on the original principal every month. For fixed
// rate, term and surcharge the unrounded payment is linear in P.
func (c *InstallmentCalculator) Regular(principal decimal.Decimal, profile model.RateProfile, termMonths int) (Installment, error) {
	if err := checkPlanInputs(principal, termMonths); err != nil {
		return Installment{}, err
	}
	if err := profile.Validate(); err != nil {
		return Installment{}, err
	}

	raw := regularPaymentUnrounded(principal, profile, termMonths)
	return c.installment(raw, termMonths), nil
}

// Campaign computes an interest-free payment: ceil(P / n).
func (c *InstallmentCalculator) Campaign(principal decimal.Decimal, termMonths int) (Installment, error) {
	if err := checkPlanInputs(principal, termMonths); err != nil {
		return Installment{}, err
	}
	raw := principal.Div(decimal.NewFromInt(int64(termMonths)))
	return c.installment(raw, termMonths), nil
}

// Round applies the calculator's ceiling rounding to an arbitrary payment and
// derives the total for termMonths.
func (c *InstallmentCalculator) Round(payment decimal.Decimal, termMonths int) Installment {
	return c.installment(payment, termMonths)
}

func (c *InstallmentCalculator) installment(raw decimal.Decimal, termMonths int) Installment {
	monthly := money.Ceil(raw, c.scale)
	return Installment{
		MonthlyPayment: monthly,
		TotalPayment:   monthly.Mul(decimal.NewFromInt(int64(termMonths))),
	}
}

func regularPaymentUnrounded(principal decimal.Decimal, profile model.RateProfile, termMonths int) decimal.Decimal {
	tcem := MonthlyRateWithInsurance(profile.AnnualEffectiveRate, profile.InsuranceLoading)
	n := decimal.NewFromInt(int64(termMonths))

	if tcem.IsZero() {
		return principal.Div(n)
	}

	growth := one.Add(tcem).Pow(n).Round(growthScale)
	base := principal.Mul(tcem).Mul(growth).Div(growth.Sub(one))
	surcharge := principal.Mul(tcem).Mul(profile.SurchargeRate)
	return base.Add(surcharge)
}

func checkPlanInputs(principal decimal.Decimal, termMonths int) error {
	if !principal.IsPositive() {
		return fmt.Errorf("%w: principal must be positive, got %s", model.ErrInvalidArgument, principal)
	}
	if termMonths <= 0 {
		return fmt.Errorf("%w: term must be positive, got %d", model.ErrInvalidArgument, termMonths)
	}
	return nil
}
