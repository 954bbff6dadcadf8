package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/cuotakiwi/quote-service/internal/application/dto"
	"github.com/cuotakiwi/quote-service/internal/application/usecase"
	"github.com/cuotakiwi/quote-service/internal/domain/model"
	"github.com/cuotakiwi/quote-service/internal/domain/valueobject"
	"github.com/cuotakiwi/quote-service/internal/infrastructure/adapter"
	"github.com/cuotakiwi/quote-service/internal/infrastructure/catalog"
	"github.com/cuotakiwi/quote-service/internal/infrastructure/kafka"
	"github.com/cuotakiwi/quote-service/internal/infrastructure/pdf"
	"github.com/cuotakiwi/quote-service/pkg/auth"
	"github.com/cuotakiwi/quote-service/pkg/money"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestRouter(t *testing.T, authMW func(http.Handler) http.Handler, checks map[string]ReadinessCheck) http.Handler {
	t.Helper()
	logger := discardLogger()
	ucs, err := usecase.NewQuoteUseCases(usecase.Dependencies{
		Source:    adapter.NewStubPreApprovalSource(),
		Catalog:   catalog.NewStaticCatalog(d("0.18"), d("0.00058")),
		Publisher: kafka.NewLogEventPublisher(logger),
		Renderer:  pdf.NewQuoteSheetRenderer(money.PEN, 0),
		Currency:  money.PEN,
		Strategy:  valueobject.RecalcRecompute,
		Meter:     noop.NewMeterProvider().Meter("test"),
		Logger:    logger,
	})
	require.NoError(t, err)

	return NewRouter(RouterConfig{
		Quotes:  NewQuoteHandler(ucs, logger),
		Health:  NewHealthHandler("quote-service", checks, logger),
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("# metrics\n"))
		}),
		Auth:   authMW,
		Logger: logger,
	})
}

func post(t *testing.T, h http.Handler, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeQuote(t *testing.T, rec *httptest.ResponseRecorder) dto.QuoteStateResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var q dto.QuoteStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &q))
	return q
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func applicant(income string) dto.RequestQuoteRequest {
	return dto.RequestQuoteRequest{
		DocumentType:   "DNI",
		DocumentNumber: "45678912",
		MonthlyIncome:  d(income),
		BranchID:       "LIM-001",
	}
}

func monthly(q dto.QuoteStateResponse, term int, campaign bool) string {
	for _, o := range q.Options {
		if o.TermMonths == term && o.IsCampaign == campaign {
			return o.MonthlyPayment.String()
		}
	}
	return ""
}

func TestQuoteRoutes_Session(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	quote := decodeQuote(t, post(t, h, "/v1/quotes", applicant("3500"), nil))
	assert.Equal(t, dto.StatusApproved, quote.Status)
	assert.Len(t, quote.Options, 8)
	assert.Equal(t, "1054", monthly(quote, 18, false))
	assert.Equal(t, "513", monthly(quote, 12, true))

	adjusted := decodeQuote(t, post(t, h, "/v1/quotes/adjust",
		dto.AdjustRequestedAmountRequest{State: quote, Amount: d("6094.60")}, nil))
	assert.Equal(t, "527", monthly(adjusted, 18, false))

	selected := decodeQuote(t, post(t, h, "/v1/quotes/select",
		dto.SelectOptionRequest{State: adjusted, TermMonths: 6, IsCampaign: true}, nil))
	require.NotNil(t, selected.SelectedOption)
	assert.Equal(t, 6, selected.SelectedOption.TermMonths)
	assert.True(t, selected.SelectedOption.IsCampaign)

	rec := post(t, h, "/v1/quotes/sheet", dto.RenderQuoteSheetRequest{State: selected}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF-"))

	reset := decodeQuote(t, post(t, h, "/v1/quotes/reset", dto.ResetQuoteRequest{State: &selected}, nil))
	assert.Equal(t, dto.StatusEmpty, reset.Status)
	assert.Empty(t, reset.Options)
}

func TestQuoteRoutes_Declined(t *testing.T) {
	h := newTestRouter(t, nil, nil)

	quote := decodeQuote(t, post(t, h, "/v1/quotes", applicant("800"), nil))
	assert.Equal(t, dto.StatusDeclined, quote.Status)
	assert.Equal(t, adapter.StubRejectionMessage, quote.RejectionReason)

	rec := post(t, h, "/v1/quotes/sheet", dto.RenderQuoteSheetRequest{State: quote}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestQuoteRoutes_Errors(t *testing.T) {
	h := newTestRouter(t, nil, nil)
	quote := decodeQuote(t, post(t, h, "/v1/quotes", applicant("3500"), nil))

	rec := post(t, h, "/v1/quotes/adjust", dto.AdjustRequestedAmountRequest{State: quote, Amount: d("20000")}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(model.CodeAmountExceedsMaximum), decodeError(t, rec).Code)

	rec = post(t, h, "/v1/quotes/adjust", dto.AdjustRequestedAmountRequest{State: quote, Amount: d("0")}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, string(model.CodeAmountNotPositive), decodeError(t, rec).Code)

	rec = post(t, h, "/v1/quotes/select", dto.SelectOptionRequest{State: quote, TermMonths: 24}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	bad := applicant("3500")
	bad.DocumentType = "PASSPORT-X"
	rec = post(t, h, "/v1/quotes", bad, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/v1/quotes", strings.NewReader("{not json"))
	raw := httptest.NewRecorder()
	h.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeError(t, raw).Code)
}

func TestQuoteRoutes_Auth(t *testing.T) {
	jwtSvc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:        "rest-test-secret",
		Expiration:    time.Minute,
		RequiredRoles: []string{auth.RoleAdvisor},
	})
	require.NoError(t, err)
	h := newTestRouter(t, auth.HTTPMiddleware(jwtSvc, nil), nil)

	rec := post(t, h, "/v1/quotes", applicant("3500"), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	wrongRole, err := jwtSvc.GenerateToken("client-1", "LIM-001", []string{auth.RoleAPIClient})
	require.NoError(t, err)
	rec = post(t, h, "/v1/quotes", applicant("3500"), http.Header{"Authorization": {"Bearer " + wrongRole}})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	token, err := jwtSvc.GenerateToken("advisor-1", "AQP-002", []string{auth.RoleAdvisor})
	require.NoError(t, err)
	req := applicant("3500")
	req.BranchID = ""
	quote := decodeQuote(t, post(t, h, "/v1/quotes", req, http.Header{"Authorization": {"Bearer " + token}}))
	assert.Equal(t, dto.StatusApproved, quote.Status)

	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		probe := httptest.NewRecorder()
		h.ServeHTTP(probe, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, probe.Code, path)
	}
}

func TestHealth_Readiness(t *testing.T) {
	h := newTestRouter(t, nil, map[string]ReadinessCheck{
		"postgres": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not_ready", body.Status)
	assert.Equal(t, "ok", body.Checks["postgres"])
	assert.Equal(t, "connection refused", body.Checks["redis"])

	live := httptest.NewRecorder()
	h.ServeHTTP(live, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, live.Code)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"option not found", model.ErrOptionNotFound, http.StatusNotFound},
		{"invalid argument", model.ErrInvalidArgument, http.StatusBadRequest},
		{"transport", model.ErrTransport, http.StatusServiceUnavailable},
		{"decode", model.NewDecodeError("maxApprovedAmount", errors.New("missing")), http.StatusBadGateway},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := classify(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}
