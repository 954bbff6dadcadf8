package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RateProfile holds the pricing terms of a quote. It is immutable once the
// pre-approval has been obtained.
type RateProfile struct {
	// AnnualEffectiveRate is the TEA as a percentage, e.g. 59.60.
	AnnualEffectiveRate decimal.Decimal
	// AnnualEffectiveCostRate is the TCEA as a percentage. Informational only.
	AnnualEffectiveCostRate decimal.Decimal
	// SurchargeRate is the flat tax applied monthly, e.g. 0.18.
	SurchargeRate decimal.Decimal
	// InsuranceLoading is added to the monthly rate, e.g. 0.00058.
	InsuranceLoading decimal.Decimal
}

// Validate checks that every rate component is non-negative.
func (p RateProfile) Validate() error {
	switch {
	case p.AnnualEffectiveRate.IsNegative():
		return fmt.Errorf("%w: annual effective rate must not be negative", ErrInvalidArgument)
	case p.SurchargeRate.IsNegative():
		return fmt.Errorf("%w: surcharge rate must not be negative", ErrInvalidArgument)
	case p.InsuranceLoading.IsNegative():
		return fmt.Errorf("%w: insurance loading must not be negative", ErrInvalidArgument)
	}
	return nil
}

// TermAmount pairs a term length with the reference amount the pre-approval
// source supplied for it. The amount is the basis principal for that term.
type TermAmount struct {
	TermMonths int
	Amount     decimal.Decimal
}

// PreApproval is the decoded outcome of an approved pre-approval request.
type PreApproval struct {
	MaxApprovedAmount  decimal.Decimal
	RateProfile        RateProfile
	RegularTermAmounts []TermAmount

	HasCampaign         bool
	CampaignRateProfile *RateProfile
	CampaignTermAmounts []TermAmount
	// CampaignMaxAmount is the ceiling the source reported for the campaign
	// plan. Requested amounts are always bounded by MaxApprovedAmount.
	CampaignMaxAmount decimal.Decimal
}

// Validate enforces the structural invariants of a pre-approval.
func (p PreApproval) Validate() error {
	if !p.MaxApprovedAmount.IsPositive() {
		return fmt.Errorf("%w: max approved amount must be positive", ErrInvalidArgument)
	}
	if err := p.RateProfile.Validate(); err != nil {
		return err
	}
	if err := validateTermAmounts(p.RegularTermAmounts); err != nil {
		return fmt.Errorf("regular terms: %w", err)
	}
	if !p.HasCampaign {
		return nil
	}
	if p.CampaignRateProfile != nil {
		if err := p.CampaignRateProfile.Validate(); err != nil {
			return fmt.Errorf("campaign: %w", err)
		}
	}
	if err := validateTermAmounts(p.CampaignTermAmounts); err != nil {
		return fmt.Errorf("campaign terms: %w", err)
	}
	return nil
}

// ReferenceAmount returns the reference amount for the given term and plan kind.
func (p PreApproval) ReferenceAmount(termMonths int, campaign bool) (decimal.Decimal, bool) {
	terms := p.RegularTermAmounts
	if campaign {
		if !p.HasCampaign {
			return decimal.Zero, false
		}
		terms = p.CampaignTermAmounts
	}
	for _, ta := range terms {
		if ta.TermMonths == termMonths {
			return ta.Amount, true
		}
	}
	return decimal.Zero, false
}

func validateTermAmounts(terms []TermAmount) error {
	seen := make(map[int]struct{}, len(terms))
	for _, ta := range terms {
		if ta.TermMonths <= 0 {
			return fmt.Errorf("%w: term must be positive, got %d", ErrInvalidArgument, ta.TermMonths)
		}
		if !ta.Amount.IsPositive() {
			return fmt.Errorf("%w: reference amount for %d months must be positive", ErrInvalidArgument, ta.TermMonths)
		}
		if _, dup := seen[ta.TermMonths]; dup {
			return fmt.Errorf("%w: duplicate term %d", ErrInvalidArgument, ta.TermMonths)
		}
		seen[ta.TermMonths] = struct{}{}
	}
	return nil
}
