package usecase

import (
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/cuotakiwi/quote-service/internal/domain/port"
	"github.com/cuotakiwi/quote-service/internal/domain/service"
	"github.com/cuotakiwi/quote-service/internal/domain/valueobject"
	"github.com/cuotakiwi/quote-service/pkg/money"
)

// Dependencies are the ports and settings shared by the quote use cases.
type Dependencies struct {
	Source    port.PreApprovalSource
	Cache     port.PreApprovalCache // optional
	Catalog   port.RateProductCatalog
	Publisher port.EventPublisher
	Renderer  port.QuoteSheetRenderer

	Currency      money.Currency
	RoundingScale int32
	Strategy      valueobject.RecalcStrategy

	Meter  metric.Meter
	Logger *slog.Logger
}

// QuoteUseCases groups the operations of a quoting session.
type QuoteUseCases struct {
	RequestQuote *RequestQuoteUseCase
	Adjust       *AdjustRequestedAmountUseCase
	SelectOption *SelectOptionUseCase
	Reset        *ResetQuoteUseCase
	RenderSheet  *RenderQuoteSheetUseCase
}

// NewQuoteUseCases builds the domain services once and shares them across
// the use cases.
func NewQuoteUseCases(deps Dependencies) (*QuoteUseCases, error) {
	calc := service.NewInstallmentCalculator(deps.RoundingScale)
	labeler := service.NewOptionLabeler(deps.Currency, deps.RoundingScale)
	builder := service.NewOptionSetBuilder(calc, labeler)
	recalculator := service.NewAmountRecalculator(calc, labeler, deps.Strategy)

	requestQuote, err := NewRequestQuoteUseCase(
		deps.Source, deps.Cache, deps.Catalog, deps.Publisher, builder, deps.Currency, deps.Meter, deps.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("request quote use case: %w", err)
	}
	adjust, err := NewAdjustRequestedAmountUseCase(recalculator, deps.Currency, deps.Meter, deps.Logger)
	if err != nil {
		return nil, fmt.Errorf("adjust amount use case: %w", err)
	}

	return &QuoteUseCases{
		RequestQuote: requestQuote,
		Adjust:       adjust,
		SelectOption: NewSelectOptionUseCase(recalculator, deps.Currency),
		Reset:        NewResetQuoteUseCase(deps.Currency, deps.Logger),
		RenderSheet:  NewRenderQuoteSheetUseCase(deps.Renderer, recalculator),
	}, nil
}
