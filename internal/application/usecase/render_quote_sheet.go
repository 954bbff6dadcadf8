package usecase

import (
	"context"
	"fmt"

	"github.com/cuotakiwi/quote-service/internal/application/dto"
	"github.com/cuotakiwi/quote-service/internal/domain/model"
	"github.com/cuotakiwi/quote-service/internal/domain/port"
	"github.com/cuotakiwi/quote-service/internal/domain/service"
)

// RenderQuoteSheetUseCase produces a printable quote sheet.
type RenderQuoteSheetUseCase struct {
	renderer     port.QuoteSheetRenderer
	recalculator *service.AmountRecalculator
}

// NewRenderQuoteSheetUseCase wires dependencies.
func NewRenderQuoteSheetUseCase(renderer port.QuoteSheetRenderer, recalculator *service.AmountRecalculator) *RenderQuoteSheetUseCase {
	return &RenderQuoteSheetUseCase{renderer: renderer, recalculator: recalculator}
}

// Execute renders the quote. Only approved quotes have a sheet.
func (uc *RenderQuoteSheetUseCase) Execute(
	ctx context.Context,
	req dto.RenderQuoteSheetRequest,
) (dto.QuoteSheetResponse, error) {
	state, err := fromQuoteStateResponse(req.State)
	if err != nil {
		return dto.QuoteSheetResponse{}, fmt.Errorf("decode quote: %w", err)
	}
	if _, ok := state.PreApproval(); !ok {
		return dto.QuoteSheetResponse{}, fmt.Errorf("render quote sheet: %w", model.ErrNoPreApproval)
	}
	if state, err = repriceQuote(state, uc.recalculator); err != nil {
		return dto.QuoteSheetResponse{}, err
	}

	content, err := uc.renderer.Render(ctx, state)
	if err != nil {
		return dto.QuoteSheetResponse{}, fmt.Errorf("render quote sheet: %w", err)
	}

	return dto.QuoteSheetResponse{
		Filename:    fmt.Sprintf("cotizacion-%s.pdf", state.ID()),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}
