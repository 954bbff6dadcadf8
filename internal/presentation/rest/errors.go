package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/cuotakiwi/quote-service/internal/domain/model"
)

// errorResponse is the body of every non-2xx quote response.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// classify maps application errors onto an HTTP status and error code.
func classify(err error) (int, errorResponse) {
	var ve *model.ValidationError
	switch {
	case errors.Is(err, model.ErrOptionNotFound):
		return http.StatusNotFound, errorResponse{Code: string(model.CodeOptionNotFound), Message: err.Error()}
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity, errorResponse{Code: string(ve.Code), Message: ve.Message}
	case errors.Is(err, model.ErrNoPreApproval):
		return http.StatusUnprocessableEntity, errorResponse{Code: string(model.CodeNoPreApproval), Message: err.Error()}
	case errors.Is(err, model.ErrInvalidArgument):
		return http.StatusBadRequest, errorResponse{Code: "INVALID_ARGUMENT", Message: err.Error()}
	case errors.Is(err, model.ErrTransport):
		return http.StatusServiceUnavailable, errorResponse{Code: "PREAPPROVAL_UNAVAILABLE", Message: err.Error()}
	case errors.Is(err, model.ErrUnexpectedResponse):
		return http.StatusBadGateway, errorResponse{Code: "PREAPPROVAL_BAD_RESPONSE", Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, errorResponse{Code: "TIMEOUT", Message: err.Error()}
	default:
		return http.StatusInternalServerError, errorResponse{Code: "INTERNAL", Message: "internal error"}
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, body := classify(err)
	writeJSON(w, status, body)
}
