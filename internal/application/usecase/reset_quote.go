package usecase

import (
	"context"
	"log/slog"

	"github.com/cuotakiwi/quote-service/internal/application/dto"
	"github.com/cuotakiwi/quote-service/internal/domain/model"
	"github.com/cuotakiwi/quote-service/pkg/money"
)

// ResetQuoteUseCase discards a quote.
type ResetQuoteUseCase struct {
	currency money.Currency
	logger   *slog.Logger
}

// NewResetQuoteUseCase wires dependencies.
func NewResetQuoteUseCase(currency money.Currency, logger *slog.Logger) *ResetQuoteUseCase {
	return &ResetQuoteUseCase{currency: currency, logger: logger}
}

// Execute returns an empty quote.
func (uc *ResetQuoteUseCase) Execute(_ context.Context, req dto.ResetQuoteRequest) (dto.QuoteStateResponse, error) {
	if req.State != nil && req.State.ID != "" {
		uc.logger.Debug("quote reset", "quote_id", req.State.ID)
	}
	return toQuoteStateResponse(model.EmptyQuoteState(), uc.currency), nil
}
