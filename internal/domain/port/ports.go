package port

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cuotakiwi/quote-service/internal/domain/event"
	"github.com/cuotakiwi/quote-service/internal/domain/model"
	"github.com/cuotakiwi/quote-service/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Pre-approval source (driven/secondary adapter)
// ---------------------------------------------------------------------------

// PreApprovalRequest identifies the applicant and the branch quoting for them.
type PreApprovalRequest struct {
	DocumentType   valueobject.DocumentType
	DocumentNumber string
	MonthlyIncome  decimal.Decimal
	BranchID       string
}

// Key returns a stable identity for deduplication and caching.
func (r PreApprovalRequest) Key() string {
	return fmt.Sprintf("%s:%s:%s:%s", r.DocumentType, r.DocumentNumber, r.MonthlyIncome.String(), r.BranchID)
}

// PreApprovalResult is a decoded pre-approval response. Exactly one of
// PreApproval (Approved == true) or RejectionReason is meaningful.
type PreApprovalResult struct {
	Approved        bool
	PreApproval     model.PreApproval
	RejectionReason string
}

// PreApprovalSource requests a pre-approval for an applicant. A declined
// applicant is a successful call with Approved == false. Errors are either
// decode faults (model.ErrUnexpectedResponse) or transport faults
// (model.ErrTransport).
type PreApprovalSource interface {
	Request(ctx context.Context, req PreApprovalRequest) (PreApprovalResult, error)
}

// PreApprovalCache keeps recent results for a short time.
type PreApprovalCache interface {
	Get(ctx context.Context, key string) (PreApprovalResult, bool, error)
	Set(ctx context.Context, key string, result PreApprovalResult) error
}

// ---------------------------------------------------------------------------
// Rate product catalog
// ---------------------------------------------------------------------------

// RateProduct holds the pricing parameters that are not part of the
// pre-approval response.
type RateProduct struct {
	BranchID         string
	SurchargeRate    decimal.Decimal
	InsuranceLoading decimal.Decimal
}

// RateProductCatalog resolves the rate product for a branch. Unknown branches
// fall back to the default product.
type RateProductCatalog interface {
	Lookup(ctx context.Context, branchID string) (RateProduct, error)
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

// ---------------------------------------------------------------------------
// Quote sheet
// ---------------------------------------------------------------------------

// QuoteSheetRenderer renders a printable quote sheet.
type QuoteSheetRenderer interface {
	Render(ctx context.Context, state model.QuoteState) ([]byte, error)
}
