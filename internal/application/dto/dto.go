package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// RequestQuoteRequest carries the applicant data sent to the pre-approval source.
type RequestQuoteRequest struct {
	DocumentType   string          `json:"document_type"`
	DocumentNumber string          `json:"document_number"`
	MonthlyIncome  decimal.Decimal `json:"monthly_income"`
	BranchID       string          `json:"branch_id"`
}

// AdjustRequestedAmountRequest changes the requested amount of a quote.
type AdjustRequestedAmountRequest struct {
	State  QuoteStateResponse `json:"state"`
	Amount decimal.Decimal    `json:"amount"`
}

// SelectOptionRequest marks one option of a quote as chosen.
type SelectOptionRequest struct {
	State      QuoteStateResponse `json:"state"`
	TermMonths int                `json:"term_months"`
	IsCampaign bool               `json:"is_campaign"`
}

// ResetQuoteRequest discards a quote. State is optional and only used for logging.
type ResetQuoteRequest struct {
	State *QuoteStateResponse `json:"state,omitempty"`
}

// RenderQuoteSheetRequest asks for a printable version of a quote.
type RenderQuoteSheetRequest struct {
	State QuoteStateResponse `json:"state"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// Quote status values.
const (
	StatusEmpty    = "EMPTY"
	StatusDeclined = "DECLINED"
	StatusApproved = "APPROVED"
)

// RateProfileResponse is the external representation of a rate profile.
type RateProfileResponse struct {
	AnnualEffectiveRate     decimal.Decimal `json:"annual_effective_rate"`
	AnnualEffectiveCostRate decimal.Decimal `json:"annual_effective_cost_rate"`
	SurchargeRate           decimal.Decimal `json:"surcharge_rate"`
	InsuranceLoading        decimal.Decimal `json:"insurance_loading"`
}

// TermAmountResponse pairs a term with its reference amount.
type TermAmountResponse struct {
	TermMonths int             `json:"term_months"`
	Amount     decimal.Decimal `json:"amount"`
}

// PreApprovalResponse is the external representation of a pre-approval.
type PreApprovalResponse struct {
	MaxApprovedAmount   decimal.Decimal      `json:"max_approved_amount"`
	RateProfile         RateProfileResponse  `json:"rate_profile"`
	RegularTermAmounts  []TermAmountResponse `json:"regular_term_amounts"`
	HasCampaign         bool                 `json:"has_campaign"`
	CampaignRateProfile *RateProfileResponse `json:"campaign_rate_profile,omitempty"`
	CampaignTermAmounts []TermAmountResponse `json:"campaign_term_amounts,omitempty"`
	CampaignMaxAmount   decimal.Decimal      `json:"campaign_max_amount"`
}

// InstallmentOptionResponse is the external representation of an installment option.
type InstallmentOptionResponse struct {
	TermMonths          int             `json:"term_months"`
	MonthlyPayment      decimal.Decimal `json:"monthly_payment"`
	TotalPayment        decimal.Decimal `json:"total_payment"`
	AnnualEffectiveRate decimal.Decimal `json:"annual_effective_rate"`
	IsCampaign          bool            `json:"is_campaign"`
	Selected            bool            `json:"selected"`
	Label               string          `json:"label"`
	ReferenceAmount     decimal.Decimal `json:"reference_amount"`
	BasePayment         decimal.Decimal `json:"base_payment"`
}

// QuoteStateResponse is the external representation of a quote. Callers send
// it back unchanged on every follow-up operation.
type QuoteStateResponse struct {
	ID              string                      `json:"id"`
	Status          string                      `json:"status"`
	Currency        string                      `json:"currency"`
	RequestedAmount decimal.Decimal             `json:"requested_amount"`
	PreApproval     *PreApprovalResponse        `json:"pre_approval,omitempty"`
	Options         []InstallmentOptionResponse `json:"options"`
	SelectedOption  *InstallmentOptionResponse  `json:"selected_option,omitempty"`
	RejectionReason string                      `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time                   `json:"created_at"`
}

// QuoteSheetResponse is a rendered quote sheet.
type QuoteSheetResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}
