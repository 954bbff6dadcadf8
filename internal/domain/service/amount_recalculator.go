package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cuotakiwi/quote-service/internal/domain/model"
	"github.com/cuotakiwi/quote-service/internal/domain/valueobject"
)

// AmountRecalculator re-derives installment amounts for a requested amount R
// below the approved maximum M without asking the pre-approval source again.
//
// Every call re-derives the max-amount basis (ReferenceAmount and BasePayment)
// from the pre-approval, never from the payments or basis carried by the
// options, so repeated adjustments do not drift, R == M restores the original
// payments, and a tampered option cannot change its own price.
type AmountRecalculator struct {
	calc     *InstallmentCalculator
	labeler  OptionLabeler
	strategy valueobject.RecalcStrategy
}

// NewAmountRecalculator wires a recalculator using strategy.
func NewAmountRecalculator(calc *InstallmentCalculator, labeler OptionLabeler, strategy valueobject.RecalcStrategy) *AmountRecalculator {
	if strategy == "" {
		strategy = valueobject.RecalcRecompute
	}
	return &AmountRecalculator{calc: calc, labeler: labeler, strategy: strategy}
}

// Strategy returns the configured strategy.
func (r *AmountRecalculator) Strategy() valueobject.RecalcStrategy { return r.strategy }

// Recalculate returns options priced for requested. Order and selection marks
// are left as given; the caller re-applies them. requested must already have
// been checked against 0 < requested <= M.
func (r *AmountRecalculator) Recalculate(
	pa model.PreApproval,
	options []model.InstallmentOption,
	requested decimal.Decimal,
) ([]model.InstallmentOption, error) {
	if !pa.MaxApprovedAmount.IsPositive() || !requested.IsPositive() {
		return nil, fmt.Errorf("%w: amounts must be positive", model.ErrInvalidArgument)
	}

	out := make([]model.InstallmentOption, 0, len(options))
	for _, o := range options {
		next, err := r.recalculateOne(pa, o, requested)
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", o.Key(), err)
		}
		out = append(out, r.labeler.apply(next))
	}
	return out, nil
}

func (r *AmountRecalculator) recalculateOne(
	pa model.PreApproval,
	o model.InstallmentOption,
	requested decimal.Decimal,
) (model.InstallmentOption, error) {
	reference, ok := pa.ReferenceAmount(o.TermMonths, o.IsCampaign)
	if !ok {
		return o, fmt.Errorf("%w: term not offered by pre-approval", model.ErrInvalidArgument)
	}
	base, err := r.price(pa, o, reference)
	if err != nil {
		return o, err
	}
	o.ReferenceAmount = reference
	o.BasePayment = base.MonthlyPayment
	if o.IsCampaign {
		o.AnnualEffectiveRate = decimal.Zero
	} else {
		o.AnnualEffectiveRate = pa.RateProfile.AnnualEffectiveRate
	}

	if requested.Equal(pa.MaxApprovedAmount) {
		return o.WithPayment(o.BasePayment), nil
	}

	switch r.strategy {
	case valueobject.RecalcScale:
		scaled := o.BasePayment.Mul(requested).Div(pa.MaxApprovedAmount)
		return o.WithPayment(r.calc.Round(scaled, o.TermMonths).MonthlyPayment), nil
	default:
		principal := reference.Mul(requested).Div(pa.MaxApprovedAmount)
		inst, err := r.price(pa, o, principal)
		if err != nil {
			return o, err
		}
		return o.WithPayment(inst.MonthlyPayment), nil
	}
}

func (r *AmountRecalculator) price(pa model.PreApproval, o model.InstallmentOption, principal decimal.Decimal) (Installment, error) {
	if o.IsCampaign {
		return r.calc.Campaign(principal, o.TermMonths)
	}
	return r.calc.Regular(principal, pa.RateProfile, o.TermMonths)
}
