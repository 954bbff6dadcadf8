package service

import (
	"github.com/shopspring/decimal"

	"github.com/cuotakiwi/quote-service/internal/domain/model"
	"github.com/cuotakiwi/quote-service/pkg/money"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func referenceProfile() model.RateProfile {
	return model.RateProfile{
		AnnualEffectiveRate:     d("59.60"),
		AnnualEffectiveCostRate: d("82.33"),
		SurchargeRate:           d("0.18"),
		InsuranceLoading:        d("0.00058"),
	}
}

// referencePreApproval mirrors a typical approved response: five regular
// terms plus an interest-free campaign on three terms.
func referencePreApproval() model.PreApproval {
	return model.PreApproval{
		MaxApprovedAmount: d("12189.20"),
		RateProfile:       referenceProfile(),
		RegularTermAmounts: []model.TermAmount{
			{TermMonths: 6, Amount: d("6000")},
			{TermMonths: 12, Amount: d("10000")},
			{TermMonths: 14, Amount: d("11200")},
			{TermMonths: 16, Amount: d("11800")},
			{TermMonths: 18, Amount: d("12189.20")},
		},
		HasCampaign: true,
		CampaignTermAmounts: []model.TermAmount{
			{TermMonths: 3, Amount: d("3000")},
			{TermMonths: 6, Amount: d("6144.73")},
			{TermMonths: 12, Amount: d("6144.73")},
		},
		CampaignMaxAmount: d("6144.73"),
	}
}

func newTestCalculator(scale int32) *InstallmentCalculator {
	return NewInstallmentCalculator(scale)
}

func newTestBuilder() *OptionSetBuilder {
	return NewOptionSetBuilder(newTestCalculator(0), NewOptionLabeler(money.PEN, 0))
}
