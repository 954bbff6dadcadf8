package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cuotakiwi/quote-service/internal/application/dto"
	"github.com/cuotakiwi/quote-service/internal/application/usecase"
	"github.com/cuotakiwi/quote-service/pkg/auth"
)

const maxRequestBody = 64 * 1024

// QuoteHandler exposes the quote operations as JSON endpoints.
type QuoteHandler struct {
	quotes *usecase.QuoteUseCases
	logger *slog.Logger
}

func NewQuoteHandler(quotes *usecase.QuoteUseCases, logger *slog.Logger) *QuoteHandler {
	return &QuoteHandler{quotes: quotes, logger: logger}
}

// Routes registers the quote endpoints beneath /v1/quotes.
func (h *QuoteHandler) Routes(r chi.Router) {
	r.Route("/v1/quotes", func(r chi.Router) {
		r.Post("/", h.requestQuote)
		r.Post("/adjust", h.adjust)
		r.Post("/select", h.selectOption)
		r.Post("/reset", h.reset)
		r.Post("/sheet", h.sheet)
	})
}

func (h *QuoteHandler) requestQuote(w http.ResponseWriter, r *http.Request) {
	var req dto.RequestQuoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.BranchID == "" {
		if claims, ok := auth.ClaimsFromContext(r.Context()); ok {
			req.BranchID = claims.BranchID
		}
	}
	respond(w, r, h.logger, func(ctx context.Context) (dto.QuoteStateResponse, error) {
		return h.quotes.RequestQuote.Execute(ctx, req)
	})
}

func (h *QuoteHandler) adjust(w http.ResponseWriter, r *http.Request) {
	var req dto.AdjustRequestedAmountRequest
	if !decodeBody(w, r, &req) {
		return
	}
	respond(w, r, h.logger, func(ctx context.Context) (dto.QuoteStateResponse, error) {
		return h.quotes.Adjust.Execute(ctx, req)
	})
}

func (h *QuoteHandler) selectOption(w http.ResponseWriter, r *http.Request) {
	var req dto.SelectOptionRequest
	if !decodeBody(w, r, &req) {
		return
	}
	respond(w, r, h.logger, func(ctx context.Context) (dto.QuoteStateResponse, error) {
		return h.quotes.SelectOption.Execute(ctx, req)
	})
}

func (h *QuoteHandler) reset(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetQuoteRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}
	respond(w, r, h.logger, func(ctx context.Context) (dto.QuoteStateResponse, error) {
		return h.quotes.Reset.Execute(ctx, req)
	})
}

// sheet returns the PDF itself rather than the JSON envelope.
func (h *QuoteHandler) sheet(w http.ResponseWriter, r *http.Request) {
	var req dto.RenderQuoteSheetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	resp, err := h.quotes.RenderSheet.Execute(r.Context(), req)
	if err != nil {
		logFailure(r, h.logger, err)
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", resp.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resp.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(resp.Content)
}

func respond[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, call func(context.Context) (T, error)) {
	resp, err := call(r.Context())
	if err != nil {
		logFailure(r, logger, err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func logFailure(r *http.Request, logger *slog.Logger, err error) {
	status, _ := classify(err)
	if status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "quote request failed", "path", r.URL.Path, "status", status, "error", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: "INVALID_REQUEST", Message: "invalid JSON payload: " + err.Error()})
		return false
	}
	return true
}
