package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cuotakiwi/quote-service/internal/domain/model"
)

// OptionSetBuilder turns a pre-approval into the ordered menu of installment
// options, with the first option in display order selected.
type OptionSetBuilder struct {
	calc    *InstallmentCalculator
	labeler OptionLabeler
}

// NewOptionSetBuilder wires a builder.
func NewOptionSetBuilder(calc *InstallmentCalculator, labeler OptionLabeler) *OptionSetBuilder {
	return &OptionSetBuilder{calc: calc, labeler: labeler}
}

// Build prices every regular term with the regular formula and, when the
// pre-approval carries a campaign, every campaign term with the interest-free
// formula.
func (b *OptionSetBuilder) Build(pa model.PreApproval) ([]model.InstallmentOption, error) {
	if err := pa.Validate(); err != nil {
		return nil, err
	}

	opts := make([]model.InstallmentOption, 0, len(pa.RegularTermAmounts)+len(pa.CampaignTermAmounts))
	for _, ta := range pa.RegularTermAmounts {
		inst, err := b.calc.Regular(ta.Amount, pa.RateProfile, ta.TermMonths)
		if err != nil {
			return nil, fmt.Errorf("regular %d months: %w", ta.TermMonths, err)
		}
		opts = append(opts, b.newOption(ta, inst, pa.RateProfile.AnnualEffectiveRate, false))
	}

	if pa.HasCampaign {
		for _, ta := range pa.CampaignTermAmounts {
			inst, err := b.calc.Campaign(ta.Amount, ta.TermMonths)
			if err != nil {
				return nil, fmt.Errorf("campaign %d months: %w", ta.TermMonths, err)
			}
			opts = append(opts, b.newOption(ta, inst, decimal.Zero, true))
		}
	}

	return model.DefaultSelection(opts), nil
}

func (b *OptionSetBuilder) newOption(ta model.TermAmount, inst Installment, rate decimal.Decimal, campaign bool) model.InstallmentOption {
	return b.labeler.apply(model.InstallmentOption{
		TermMonths:          ta.TermMonths,
		MonthlyPayment:      inst.MonthlyPayment,
		TotalPayment:        inst.TotalPayment,
		AnnualEffectiveRate: rate,
		IsCampaign:          campaign,
		ReferenceAmount:     ta.Amount,
		BasePayment:         inst.MonthlyPayment,
	})
}
