package usecase

import (
	"fmt"

	"github.com/cuotakiwi/quote-service/internal/application/dto"
	"github.com/cuotakiwi/quote-service/internal/domain/model"
	"github.com/cuotakiwi/quote-service/pkg/money"
)

// ---------------------------------------------------------------------------
// Domain -> DTO
// ---------------------------------------------------------------------------

func toQuoteStateResponse(s model.QuoteState, currency money.Currency) dto.QuoteStateResponse {
	resp := dto.QuoteStateResponse{
		ID:              s.ID(),
		Status:          quoteStatus(s),
		Currency:        currency.Code(),
		RequestedAmount: s.RequestedAmount(),
		Options:         []dto.InstallmentOptionResponse{},
		RejectionReason: s.RejectionReason(),
		CreatedAt:       s.CreatedAt(),
	}
	if pa, ok := s.PreApproval(); ok {
		p := toPreApprovalResponse(pa)
		resp.PreApproval = &p
	}
	for _, o := range s.Options() {
		resp.Options = append(resp.Options, toOptionResponse(o))
	}
	if sel, ok := s.SelectedOption(); ok {
		o := toOptionResponse(sel)
		resp.SelectedOption = &o
	}
	return resp
}

func quoteStatus(s model.QuoteState) string {
	switch {
	case s.IsDeclined():
		return dto.StatusDeclined
	case s.IsEmpty():
		return dto.StatusEmpty
	default:
		return dto.StatusApproved
	}
}

func toPreApprovalResponse(pa model.PreApproval) dto.PreApprovalResponse {
	resp := dto.PreApprovalResponse{
		MaxApprovedAmount:   pa.MaxApprovedAmount,
		RateProfile:         toRateProfileResponse(pa.RateProfile),
		RegularTermAmounts:  toTermAmountResponses(pa.RegularTermAmounts),
		HasCampaign:         pa.HasCampaign,
		CampaignTermAmounts: toTermAmountResponses(pa.CampaignTermAmounts),
		CampaignMaxAmount:   pa.CampaignMaxAmount,
	}
	if pa.CampaignRateProfile != nil {
		p := toRateProfileResponse(*pa.CampaignRateProfile)
		resp.CampaignRateProfile = &p
	}
	return resp
}

func toRateProfileResponse(p model.RateProfile) dto.RateProfileResponse {
	return dto.RateProfileResponse{
		AnnualEffectiveRate:     p.AnnualEffectiveRate,
		AnnualEffectiveCostRate: p.AnnualEffectiveCostRate,
		SurchargeRate:           p.SurchargeRate,
		InsuranceLoading:        p.InsuranceLoading,
	}
}

func toTermAmountResponses(terms []model.TermAmount) []dto.TermAmountResponse {
	if len(terms) == 0 {
		return nil
	}
	out := make([]dto.TermAmountResponse, len(terms))
	for i, ta := range terms {
		out[i] = dto.TermAmountResponse{TermMonths: ta.TermMonths, Amount: ta.Amount}
	}
	return out
}

func toOptionResponse(o model.InstallmentOption) dto.InstallmentOptionResponse {
	return dto.InstallmentOptionResponse{
		TermMonths:          o.TermMonths,
		MonthlyPayment:      o.MonthlyPayment,
		TotalPayment:        o.TotalPayment,
		AnnualEffectiveRate: o.AnnualEffectiveRate,
		IsCampaign:          o.IsCampaign,
		Selected:            o.Selected,
		Label:               o.Label,
		ReferenceAmount:     o.ReferenceAmount,
		BasePayment:         o.BasePayment,
	}
}

// ---------------------------------------------------------------------------
// DTO -> Domain
// ---------------------------------------------------------------------------

// fromQuoteStateResponse rebuilds the aggregate a caller handed back. The
// options keep the caller's payments until repriceQuote replaces them; their
// max-amount basis is never read from the caller.
func fromQuoteStateResponse(resp dto.QuoteStateResponse) (model.QuoteState, error) {
	var pa *model.PreApproval
	if resp.PreApproval != nil {
		p := fromPreApprovalResponse(*resp.PreApproval)
		if err := p.Validate(); err != nil {
			return model.QuoteState{}, fmt.Errorf("quote %s: %w", resp.ID, err)
		}
		pa = &p
	}

	opts := make([]model.InstallmentOption, 0, len(resp.Options))
	for _, o := range resp.Options {
		if o.TermMonths <= 0 {
			return model.QuoteState{}, fmt.Errorf("%w: option term must be positive", model.ErrInvalidArgument)
		}
		opts = append(opts, model.InstallmentOption{
			TermMonths:          o.TermMonths,
			MonthlyPayment:      o.MonthlyPayment,
			TotalPayment:        o.TotalPayment,
			AnnualEffectiveRate: o.AnnualEffectiveRate,
			IsCampaign:          o.IsCampaign,
			Selected:            o.Selected,
			Label:               o.Label,
		})
	}

	requested := resp.RequestedAmount
	if pa != nil && requested.IsZero() {
		requested = pa.MaxApprovedAmount
	}

	return model.ReconstructQuoteState(resp.ID, pa, requested, opts, resp.RejectionReason, resp.CreatedAt), nil
}

func fromPreApprovalResponse(resp dto.PreApprovalResponse) model.PreApproval {
	pa := model.PreApproval{
		MaxApprovedAmount:   resp.MaxApprovedAmount,
		RateProfile:         fromRateProfileResponse(resp.RateProfile),
		RegularTermAmounts:  fromTermAmountResponses(resp.RegularTermAmounts),
		HasCampaign:         resp.HasCampaign,
		CampaignTermAmounts: fromTermAmountResponses(resp.CampaignTermAmounts),
		CampaignMaxAmount:   resp.CampaignMaxAmount,
	}
	if resp.CampaignRateProfile != nil {
		p := fromRateProfileResponse(*resp.CampaignRateProfile)
		pa.CampaignRateProfile = &p
	}
	return pa
}

func fromRateProfileResponse(resp dto.RateProfileResponse) model.RateProfile {
	return model.RateProfile{
		AnnualEffectiveRate:     resp.AnnualEffectiveRate,
		AnnualEffectiveCostRate: resp.AnnualEffectiveCostRate,
		SurchargeRate:           resp.SurchargeRate,
		InsuranceLoading:        resp.InsuranceLoading,
	}
}

func fromTermAmountResponses(terms []dto.TermAmountResponse) []model.TermAmount {
	out := make([]model.TermAmount, len(terms))
	for i, ta := range terms {
		out[i] = model.TermAmount{TermMonths: ta.TermMonths, Amount: ta.Amount}
	}
	return out
}

