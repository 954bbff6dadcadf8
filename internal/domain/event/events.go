package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cuotakiwi/quote-service/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

const aggregateQuote = "Quote"

// Event types, also used as the Kafka message key prefix.
const (
	TypePreApprovalApproved = "quote.preapproval.approved"
	TypePreApprovalDeclined = "quote.preapproval.declined"
)

// PreApprovalApproved is raised when a quote session starts from an approved
// pre-approval.
type PreApprovalApproved struct {
	events.BaseEvent
	MaxApprovedAmount   decimal.Decimal `json:"max_approved_amount"`
	AnnualEffectiveRate decimal.Decimal `json:"annual_effective_rate"`
	OptionCount         int             `json:"option_count"`
	HasCampaign         bool            `json:"has_campaign"`
}

func NewPreApprovalApproved(
	quoteID string,
	maxAmount, annualRate decimal.Decimal,
	optionCount int, hasCampaign bool,
	at time.Time,
) PreApprovalApproved {
	return PreApprovalApproved{
		BaseEvent:           events.NewBaseEvent(TypePreApprovalApproved, quoteID, aggregateQuote, at),
		MaxApprovedAmount:   maxAmount,
		AnnualEffectiveRate: annualRate,
		OptionCount:         optionCount,
		HasCampaign:         hasCampaign,
	}
}

// PreApprovalDeclined is raised when the pre-approval source rejects the applicant.
type PreApprovalDeclined struct {
	events.BaseEvent
	Reason string `json:"reason"`
}

func NewPreApprovalDeclined(quoteID, reason string, at time.Time) PreApprovalDeclined {
	return PreApprovalDeclined{
		BaseEvent: events.NewBaseEvent(TypePreApprovalDeclined, quoteID, aggregateQuote, at),
		Reason:    reason,
	}
}
