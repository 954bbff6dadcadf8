package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/cuotakiwi/quote-service/internal/domain/event"
	"github.com/cuotakiwi/quote-service/internal/domain/model"
	"github.com/cuotakiwi/quote-service/internal/domain/port"
	"github.com/cuotakiwi/quote-service/internal/domain/service"
	"github.com/cuotakiwi/quote-service/internal/domain/valueobject"
	"github.com/cuotakiwi/quote-service/pkg/money"
)

// --- Mock implementations ---

type mockPreApprovalSource struct {
	requestFunc func(ctx context.Context, req port.PreApprovalRequest) (port.PreApprovalResult, error)
	calls       atomic.Int32
}

func (m *mockPreApprovalSource) Request(ctx context.Context, req port.PreApprovalRequest) (port.PreApprovalResult, error) {
	m.calls.Add(1)
	if m.requestFunc != nil {
		return m.requestFunc(ctx, req)
	}
	return approvedResult(), nil
}

type mockPreApprovalCache struct {
	mu      sync.Mutex
	getFunc func(ctx context.Context, key string) (port.PreApprovalResult, bool, error)
	setFunc func(ctx context.Context, key string, result port.PreApprovalResult) error
	stored  map[string]port.PreApprovalResult
}

func (m *mockPreApprovalCache) Get(ctx context.Context, key string) (port.PreApprovalResult, bool, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.stored[key]
	return r, ok, nil
}

func (m *mockPreApprovalCache) Set(ctx context.Context, key string, result port.PreApprovalResult) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, key, result)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stored == nil {
		m.stored = make(map[string]port.PreApprovalResult)
	}
	m.stored[key] = result
	return nil
}

type mockRateProductCatalog struct {
	lookupFunc func(ctx context.Context, branchID string) (port.RateProduct, error)
}

func (m *mockRateProductCatalog) Lookup(ctx context.Context, branchID string) (port.RateProduct, error) {
	if m.lookupFunc != nil {
		return m.lookupFunc(ctx, branchID)
	}
	return port.RateProduct{
		BranchID:         branchID,
		SurchargeRate:    decimal.RequireFromString("0.18"),
		InsuranceLoading: decimal.RequireFromString("0.00058"),
	}, nil
}

type mockQuoteEventPublisher struct {
	mu              sync.Mutex
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockQuoteEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

type mockQuoteSheetRenderer struct {
	renderFunc func(ctx context.Context, state model.QuoteState) ([]byte, error)
}

func (m *mockQuoteSheetRenderer) Render(ctx context.Context, state model.QuoteState) ([]byte, error) {
	if m.renderFunc != nil {
		return m.renderFunc(ctx, state)
	}
	return []byte("%PDF-1.3"), nil
}

// --- Fixtures ---

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testMeter = noop.NewMeterProvider().Meter("test")

// approvedResult is a pre-approval as the source returns it: surcharge and
// insurance loading come from the rate product catalog.
func approvedResult() port.PreApprovalResult {
	return port.PreApprovalResult{
		Approved: true,
		PreApproval: model.PreApproval{
			MaxApprovedAmount: d("12189.20"),
			RateProfile: model.RateProfile{
				AnnualEffectiveRate:     d("59.60"),
				AnnualEffectiveCostRate: d("82.33"),
			},
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
		},
	}
}

func newBuilder() *service.OptionSetBuilder {
	return service.NewOptionSetBuilder(service.NewInstallmentCalculator(0), service.NewOptionLabeler(money.PEN, 0))
}

func newRecalculator(strategy valueobject.RecalcStrategy) *service.AmountRecalculator {
	return service.NewAmountRecalculator(service.NewInstallmentCalculator(0), service.NewOptionLabeler(money.PEN, 0), strategy)
}
