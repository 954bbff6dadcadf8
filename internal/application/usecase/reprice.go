package usecase

import (
	"fmt"

	"github.com/cuotakiwi/quote-service/internal/domain/model"
	"github.com/cuotakiwi/quote-service/internal/domain/service"
)

// repriceQuote recomputes every option of a caller-supplied quote from its
// pre-approval at the quote's requested amount. Quotes without a pre-approval
// are returned unchanged.
func repriceQuote(state model.QuoteState, recalculator *service.AmountRecalculator) (model.QuoteState, error) {
	pa, ok := state.PreApproval()
	if !ok {
		return state, nil
	}
	requested := state.RequestedAmount()
	if err := state.CheckRequestedAmount(requested); err != nil {
		return state, err
	}
	options, err := recalculator.Recalculate(pa, state.Options(), requested)
	if err != nil {
		return state, fmt.Errorf("reprice options: %w", err)
	}
	return state.WithRequestedAmount(requested, options)
}
