package usecase

import (
	"context"
	"fmt"

	"github.com/cuotakiwi/quote-service/internal/application/dto"
	"github.com/cuotakiwi/quote-service/internal/domain/service"
	"github.com/cuotakiwi/quote-service/internal/domain/valueobject"
	"github.com/cuotakiwi/quote-service/pkg/money"
)

// SelectOptionUseCase records which option the applicant picked.
type SelectOptionUseCase struct {
	recalculator *service.AmountRecalculator
	currency     money.Currency
}

// NewSelectOptionUseCase wires dependencies.
func NewSelectOptionUseCase(recalculator *service.AmountRecalculator, currency money.Currency) *SelectOptionUseCase {
	return &SelectOptionUseCase{recalculator: recalculator, currency: currency}
}

// Execute marks the option identified by term and plan kind as selected.
func (uc *SelectOptionUseCase) Execute(
	_ context.Context,
	req dto.SelectOptionRequest,
) (dto.QuoteStateResponse, error) {
	state, err := fromQuoteStateResponse(req.State)
	if err != nil {
		return dto.QuoteStateResponse{}, fmt.Errorf("decode quote: %w", err)
	}
	if state, err = repriceQuote(state, uc.recalculator); err != nil {
		return dto.QuoteStateResponse{}, err
	}

	state, err = state.Select(valueobject.NewOptionKey(req.TermMonths, req.IsCampaign))
	if err != nil {
		return dto.QuoteStateResponse{}, err
	}

	return toQuoteStateResponse(state, uc.currency), nil
}
