package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/cuotakiwi/quote-service/internal/application/dto"
	"github.com/cuotakiwi/quote-service/internal/domain/service"
	"github.com/cuotakiwi/quote-service/pkg/money"
)

// AdjustRequestedAmountUseCase re-prices every option for a new requested
// amount. It never calls the pre-approval source and is safe to invoke on
// every keystroke.
type AdjustRequestedAmountUseCase struct {
	recalculator *service.AmountRecalculator
	currency     money.Currency
	logger       *slog.Logger
	adjustments  metric.Int64Counter
}

// NewAdjustRequestedAmountUseCase wires dependencies.
func NewAdjustRequestedAmountUseCase(
	recalculator *service.AmountRecalculator,
	currency money.Currency,
	meter metric.Meter,
	logger *slog.Logger,
) (*AdjustRequestedAmountUseCase, error) {
	adjustments, err := meter.Int64Counter("quote_adjustments",
		metric.WithDescription("Requested amount adjustments"),
	)
	if err != nil {
		return nil, fmt.Errorf("create quote_adjustments counter: %w", err)
	}
	return &AdjustRequestedAmountUseCase{
		recalculator: recalculator,
		currency:     currency,
		logger:       logger,
		adjustments:  adjustments,
	}, nil
}

// Execute validates the amount and returns the re-priced quote.
func (uc *AdjustRequestedAmountUseCase) Execute(
	ctx context.Context,
	req dto.AdjustRequestedAmountRequest,
) (dto.QuoteStateResponse, error) {
	// 1. Rebuild the quote the caller holds.
	state, err := fromQuoteStateResponse(req.State)
	if err != nil {
		return dto.QuoteStateResponse{}, fmt.Errorf("decode quote: %w", err)
	}

	// 2. Check 0 < amount <= max before any arithmetic.
	if err := state.CheckRequestedAmount(req.Amount); err != nil {
		return dto.QuoteStateResponse{}, err
	}
	pa, _ := state.PreApproval()

	// 3. Recalculate from the max-amount basis.
	options, err := uc.recalculator.Recalculate(pa, state.Options(), req.Amount)
	if err != nil {
		return dto.QuoteStateResponse{}, fmt.Errorf("recalculate options: %w", err)
	}

	// 4. Apply, keeping the selection.
	state, err = state.WithRequestedAmount(req.Amount, options)
	if err != nil {
		return dto.QuoteStateResponse{}, err
	}

	uc.adjustments.Add(ctx, 1, metric.WithAttributes(
		attribute.String("strategy", string(uc.recalculator.Strategy())),
	))
	uc.logger.Debug("requested amount adjusted",
		"quote_id", state.ID(),
		"requested_amount", req.Amount.String(),
	)

	return toQuoteStateResponse(state, uc.currency), nil
}
