package adapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/cuotakiwi/quote-service/internal/domain/port"
)

// StubRejectionMessage is returned for applicants below the minimum income.
const StubRejectionMessage = "Cuota Kiwi no apta para prestamo;"

// stubMinimumIncome is the monthly income below which the stub declines.
var stubMinimumIncome = decimal.NewFromInt(1025)

// stubApprovedResponse is the canned response body for approved applicants.
const stubApprovedResponse = `{
  "approved": true,
  "annualEffectiveRate": 59.60,
  "annualEffectiveCostRate": 82.33,
  "maxApprovedAmount": 12189.20,
  "regularTermAmounts": {
    "6Quotas": 6000.00,
    "12Quotas": 10000.00,
    "14Quotas": 11200.00,
    "16Quotas": 11800.00,
    "18Quotas": 12189.20
  },
  "campaign": {
    "active": true,
    "annualEffectiveRate": 0,
    "annualEffectiveCostRate": 0,
    "maxApprovedAmount": "6144.73",
    "termAmounts": {
      "3Quotas": "3000.00",
      "6Quotas": "6144.73",
      "12Quotas": "6144.73"
    }
  }
}`

// StubPreApprovalSource is a development adapter answering from canned wire
// responses. It implements port.PreApprovalSource.
type StubPreApprovalSource struct{}

// NewStubPreApprovalSource creates a new stub adapter.
func NewStubPreApprovalSource() *StubPreApprovalSource {
	return &StubPreApprovalSource{}
}

// Request declines applicants earning less than the minimum income and
// approves everyone else with the reference offer. Both paths go through the
// wire decoder.
func (s *StubPreApprovalSource) Request(_ context.Context, req port.PreApprovalRequest) (port.PreApprovalResult, error) {
	if strings.TrimSpace(req.DocumentNumber) == "" {
		return port.PreApprovalResult{}, fmt.Errorf("document number is required")
	}
	if req.MonthlyIncome.LessThan(stubMinimumIncome) {
		return DecodeResponse([]byte(fmt.Sprintf(`{"approved":false,"message":%q}`, StubRejectionMessage)))
	}
	return DecodeResponse([]byte(stubApprovedResponse))
}
