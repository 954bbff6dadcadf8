package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cuotakiwi/quote-service/internal/application/dto"
	"github.com/cuotakiwi/quote-service/internal/application/usecase"
	"github.com/cuotakiwi/quote-service/internal/domain/model"
	"github.com/cuotakiwi/quote-service/pkg/auth"
)

// QuoteHandler implements QuoteServiceServer on top of the use cases.
type QuoteHandler struct {
	UnimplementedQuoteServiceServer

	quotes *usecase.QuoteUseCases
}

// NewQuoteHandler creates a new handler.
func NewQuoteHandler(quotes *usecase.QuoteUseCases) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

// RequestQuote fetches a pre-approval. The branch defaults to the caller's
// token branch when the request omits it.
func (h *QuoteHandler) RequestQuote(ctx context.Context, req *dto.RequestQuoteRequest) (*dto.QuoteStateResponse, error) {
	in := *req
	if in.BranchID == "" {
		if claims, ok := auth.ClaimsFromContext(ctx); ok {
			in.BranchID = claims.BranchID
		}
	}
	resp, err := h.quotes.RequestQuote.Execute(ctx, in)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

func (h *QuoteHandler) AdjustRequestedAmount(ctx context.Context, req *dto.AdjustRequestedAmountRequest) (*dto.QuoteStateResponse, error) {
	resp, err := h.quotes.Adjust.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

func (h *QuoteHandler) SelectOption(ctx context.Context, req *dto.SelectOptionRequest) (*dto.QuoteStateResponse, error) {
	resp, err := h.quotes.SelectOption.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

func (h *QuoteHandler) ResetQuote(ctx context.Context, req *dto.ResetQuoteRequest) (*dto.QuoteStateResponse, error) {
	resp, err := h.quotes.Reset.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

func (h *QuoteHandler) RenderQuoteSheet(ctx context.Context, req *dto.RenderQuoteSheetRequest) (*dto.QuoteSheetResponse, error) {
	resp, err := h.quotes.RenderSheet.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

// toStatus maps application errors onto gRPC status codes.
func toStatus(err error) error {
	var ve *model.ValidationError
	switch {
	case errors.Is(err, model.ErrOptionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &ve):
		return status.Error(codes.InvalidArgument, ve.Error())
	case errors.Is(err, model.ErrInvalidArgument), errors.Is(err, model.ErrNoPreApproval):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, model.ErrTransport):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, model.ErrUnexpectedResponse):
		return status.Error(codes.Internal, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
