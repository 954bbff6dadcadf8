package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cuotakiwi/quote-service/internal/domain/event"
	"github.com/cuotakiwi/quote-service/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// QuoteState aggregate
// ---------------------------------------------------------------------------

// QuoteState is one applicant's quoting session. It is an immutable value:
// every transition returns a new copy, and the caller threads the latest copy
// through subsequent calls.
//
// A state is in exactly one of three shapes: empty, declined (rejection
// reason set, no pre-approval) or approved (pre-approval and options set).
type QuoteState struct {
	id              string
	preApproval     *PreApproval
	requestedAmount decimal.Decimal
	options         []InstallmentOption
	rejectionReason string
	createdAt       time.Time
	domainEvents    []event.DomainEvent
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// EmptyQuoteState returns a state with no pre-approval and no options.
func EmptyQuoteState() QuoteState {
	return QuoteState{requestedAmount: decimal.Zero}
}

// NewApprovedQuoteState starts a session from a pre-approval and its freshly
// built option set. The requested amount starts at the approved maximum and
// the first option in display order is selected.
func NewApprovedQuoteState(pa PreApproval, options []InstallmentOption, now time.Time) (QuoteState, error) {
	if err := pa.Validate(); err != nil {
		return QuoteState{}, err
	}
	id := uuid.New().String()
	opts := DefaultSelection(options)
	state := QuoteState{
		id:              id,
		preApproval:     &pa,
		requestedAmount: pa.MaxApprovedAmount,
		options:         opts,
		createdAt:       now,
	}
	state.domainEvents = append(state.domainEvents, event.NewPreApprovalApproved(
		id, pa.MaxApprovedAmount, pa.RateProfile.AnnualEffectiveRate, len(opts), pa.HasCampaign, now,
	))
	return state, nil
}

// NewDeclinedQuoteState records a business rejection. It is a normal outcome,
// not a fault.
func NewDeclinedQuoteState(reason string, now time.Time) QuoteState {
	id := uuid.New().String()
	state := QuoteState{
		id:              id,
		requestedAmount: decimal.Zero,
		rejectionReason: reason,
		createdAt:       now,
	}
	state.domainEvents = append(state.domainEvents, event.NewPreApprovalDeclined(id, reason, now))
	return state
}

// ReconstructQuoteState rebuilds a state handed back by a caller without
// side-effects. The selection marks on options are kept as given.
func ReconstructQuoteState(
	id string,
	pa *PreApproval,
	requestedAmount decimal.Decimal,
	options []InstallmentOption,
	rejectionReason string,
	createdAt time.Time,
) QuoteState {
	var paCopy *PreApproval
	if pa != nil {
		c := *pa
		paCopy = &c
	}
	return QuoteState{
		id:              id,
		preApproval:     paCopy,
		requestedAmount: requestedAmount,
		options:         copyOptions(options),
		rejectionReason: rejectionReason,
		createdAt:       createdAt,
	}
}

// ---------------------------------------------------------------------------
// Transitions (each returns a new copy)
// ---------------------------------------------------------------------------

// CheckRequestedAmount validates amount against the approved maximum.
func (s QuoteState) CheckRequestedAmount(amount decimal.Decimal) error {
	if s.preApproval == nil {
		return newValidationError(CodeNoPreApproval, ErrNoPreApproval, "no pre-approval to adjust")
	}
	if !amount.IsPositive() {
		return newValidationError(CodeAmountNotPositive, ErrAmountNotPositive,
			"requested amount %s must be greater than zero", amount)
	}
	if amount.GreaterThan(s.preApproval.MaxApprovedAmount) {
		return newValidationError(CodeAmountExceedsMaximum, ErrAmountExceedsMaximum,
			"requested amount %s exceeds maximum %s", amount, s.preApproval.MaxApprovedAmount)
	}
	return nil
}

// WithRequestedAmount replaces the requested amount and the recalculated
// options. Display order is re-applied and the previously selected option is
// kept when it is still offered; otherwise the first option is selected.
func (s QuoteState) WithRequestedAmount(amount decimal.Decimal, recalculated []InstallmentOption) (QuoteState, error) {
	if err := s.CheckRequestedAmount(amount); err != nil {
		return s, err
	}
	sorted := SortOptions(recalculated)
	if key, ok := selectedKey(s.options); ok {
		if kept, found := SelectOption(sorted, key); found {
			sorted = kept
		} else {
			sorted = selectFirst(sorted)
		}
	} else {
		sorted = selectFirst(sorted)
	}

	next := s
	next.requestedAmount = amount
	next.options = sorted
	next.domainEvents = nil
	return next, nil
}

// Select marks the option identified by key as the applicant's choice.
func (s QuoteState) Select(key valueobject.OptionKey) (QuoteState, error) {
	if s.preApproval == nil {
		return s, newValidationError(CodeNoPreApproval, ErrNoPreApproval, "no options to select from")
	}
	opts, ok := SelectOption(s.options, key)
	if !ok {
		return s, newValidationError(CodeOptionNotFound, ErrOptionNotFound, "no %s option", key)
	}
	next := s
	next.options = opts
	next.domainEvents = nil
	return next, nil
}

// Reset discards the session.
func (s QuoteState) Reset() QuoteState {
	return EmptyQuoteState()
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (s QuoteState) ID() string                       { return s.id }
func (s QuoteState) RequestedAmount() decimal.Decimal { return s.requestedAmount }
func (s QuoteState) RejectionReason() string          { return s.rejectionReason }
func (s QuoteState) CreatedAt() time.Time             { return s.createdAt }
func (s QuoteState) DomainEvents() []event.DomainEvent { return s.domainEvents }

// PreApproval returns the pre-approval, if any.
func (s QuoteState) PreApproval() (PreApproval, bool) {
	if s.preApproval == nil {
		return PreApproval{}, false
	}
	return *s.preApproval, true
}

// Options returns a copy of the options in display order.
func (s QuoteState) Options() []InstallmentOption { return copyOptions(s.options) }

// SelectedOption returns the option the applicant currently has selected.
func (s QuoteState) SelectedOption() (InstallmentOption, bool) {
	for _, o := range s.options {
		if o.Selected {
			return o, true
		}
	}
	return InstallmentOption{}, false
}

// IsDeclined reports whether the pre-approval source rejected the applicant.
func (s QuoteState) IsDeclined() bool { return s.preApproval == nil && s.rejectionReason != "" }

// IsEmpty reports whether the state holds neither a pre-approval nor a rejection.
func (s QuoteState) IsEmpty() bool { return s.preApproval == nil && s.rejectionReason == "" }

// ClearEvents returns a copy with an empty event list (call after publishing).
func (s QuoteState) ClearEvents() QuoteState {
	next := s
	next.domainEvents = nil
	return next
}
