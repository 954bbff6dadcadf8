package adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cuotakiwi/quote-service/internal/domain/model"
	"github.com/cuotakiwi/quote-service/internal/domain/port"
)

// termKeySuffix ends every key of a term-amount map, e.g. "18Quotas".
const termKeySuffix = "Quotas"

// defaultRejectionReason is used when a decline carries no message.
const defaultRejectionReason = "Solicitud de préstamo no aprobada"

// ---------------------------------------------------------------------------
// Wire types
// ---------------------------------------------------------------------------

type wireRequest struct {
	DocumentType   string          `json:"documentType"`
	DocumentNumber string          `json:"documentNumber"`
	MonthlyIncome  decimal.Decimal `json:"monthlyIncome"`
	BranchID       string          `json:"branchId"`
}

type wireResponse struct {
	Approved                *bool                      `json:"approved"`
	Message                 string                     `json:"message"`
	AnnualEffectiveRate     json.RawMessage            `json:"annualEffectiveRate"`
	AnnualEffectiveCostRate json.RawMessage            `json:"annualEffectiveCostRate"`
	MaxApprovedAmount       json.RawMessage            `json:"maxApprovedAmount"`
	RegularTermAmounts      map[string]json.RawMessage `json:"regularTermAmounts"`
	Campaign                *wireCampaign              `json:"campaign"`
}

type wireCampaign struct {
	Active                  bool                       `json:"active"`
	AnnualEffectiveRate     json.RawMessage            `json:"annualEffectiveRate"`
	AnnualEffectiveCostRate json.RawMessage            `json:"annualEffectiveCostRate"`
	MaxApprovedAmount       json.RawMessage            `json:"maxApprovedAmount"`
	TermAmounts             map[string]json.RawMessage `json:"termAmounts"`
}

func toWireRequest(req port.PreApprovalRequest) wireRequest {
	return wireRequest{
		DocumentType:   req.DocumentType.String(),
		DocumentNumber: req.DocumentNumber,
		MonthlyIncome:  req.MonthlyIncome,
		BranchID:       req.BranchID,
	}
}

// ---------------------------------------------------------------------------
// Decoding
// ---------------------------------------------------------------------------

// DecodeResponse turns a pre-approval response body into a result. Every
// malformed field is reported as a *model.DecodeError. A body without an
// approved flag is malformed, never a decline.
func DecodeResponse(body []byte) (port.PreApprovalResult, error) {
	var w wireResponse
	if err := json.Unmarshal(body, &w); err != nil {
		return port.PreApprovalResult{}, model.NewDecodeError("body", err)
	}
	if w.Approved == nil {
		return port.PreApprovalResult{}, model.NewDecodeError("approved", errMissing)
	}

	if !*w.Approved {
		reason := strings.TrimSpace(w.Message)
		if reason == "" {
			reason = defaultRejectionReason
		}
		return port.PreApprovalResult{RejectionReason: reason}, nil
	}

	pa, err := decodePreApproval(w)
	if err != nil {
		return port.PreApprovalResult{}, err
	}
	if err := pa.Validate(); err != nil {
		return port.PreApprovalResult{}, model.NewDecodeError("preApproval", err)
	}
	return port.PreApprovalResult{Approved: true, PreApproval: pa}, nil
}

func decodePreApproval(w wireResponse) (model.PreApproval, error) {
	var (
		pa  model.PreApproval
		err error
	)
	if pa.MaxApprovedAmount, err = requiredAmount("maxApprovedAmount", w.MaxApprovedAmount); err != nil {
		return pa, err
	}
	if pa.RateProfile.AnnualEffectiveRate, err = requiredAmount("annualEffectiveRate", w.AnnualEffectiveRate); err != nil {
		return pa, err
	}
	if pa.RateProfile.AnnualEffectiveCostRate, err = optionalAmount("annualEffectiveCostRate", w.AnnualEffectiveCostRate); err != nil {
		return pa, err
	}
	if pa.RegularTermAmounts, err = decodeTermAmounts("regularTermAmounts", w.RegularTermAmounts); err != nil {
		return pa, err
	}

	if w.Campaign == nil || !w.Campaign.Active {
		return pa, nil
	}
	c := w.Campaign
	profile := model.RateProfile{}
	if profile.AnnualEffectiveRate, err = optionalAmount("campaign.annualEffectiveRate", c.AnnualEffectiveRate); err != nil {
		return pa, err
	}
	if profile.AnnualEffectiveCostRate, err = optionalAmount("campaign.annualEffectiveCostRate", c.AnnualEffectiveCostRate); err != nil {
		return pa, err
	}
	if pa.CampaignMaxAmount, err = optionalAmount("campaign.maxApprovedAmount", c.MaxApprovedAmount); err != nil {
		return pa, err
	}
	if pa.CampaignTermAmounts, err = decodeTermAmounts("campaign.termAmounts", c.TermAmounts); err != nil {
		return pa, err
	}
	pa.HasCampaign = true
	pa.CampaignRateProfile = &profile
	return pa, nil
}

// decodeTermAmounts converts {"<N>Quotas": amount} into term-ordered records.
func decodeTermAmounts(field string, raw map[string]json.RawMessage) ([]model.TermAmount, error) {
	out := make([]model.TermAmount, 0, len(raw))
	for key, value := range raw {
		term, err := ParseTermKey(key)
		if err != nil {
			return nil, model.NewDecodeError(field, err)
		}
		amount, err := requiredAmount(field+"."+key, value)
		if err != nil {
			return nil, err
		}
		out = append(out, model.TermAmount{TermMonths: term, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TermMonths < out[j].TermMonths })
	return out, nil
}

// ParseTermKey extracts N from a "<N>Quotas" key.
func ParseTermKey(key string) (int, error) {
	prefix, ok := strings.CutSuffix(key, termKeySuffix)
	if !ok {
		return 0, fmt.Errorf("term key %q lacks suffix %q", key, termKeySuffix)
	}
	n, err := strconv.Atoi(prefix)
	if err != nil {
		return 0, fmt.Errorf("term key %q: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("term key %q: term must be positive", key)
	}
	return n, nil
}

var errMissing = errors.New("missing value")

func requiredAmount(field string, raw json.RawMessage) (decimal.Decimal, error) {
	if isAbsent(raw) {
		return decimal.Zero, model.NewDecodeError(field, errMissing)
	}
	return parseAmount(field, raw)
}

func optionalAmount(field string, raw json.RawMessage) (decimal.Decimal, error) {
	if isAbsent(raw) {
		return decimal.Zero, nil
	}
	return parseAmount(field, raw)
}

// parseAmount accepts a JSON number or a numeric string.
func parseAmount(field string, raw json.RawMessage) (decimal.Decimal, error) {
	text := string(bytes.TrimSpace(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, model.NewDecodeError(field, err)
		}
		text = strings.TrimSpace(s)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, model.NewDecodeError(field, err)
	}
	return d, nil
}

func isAbsent(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}
