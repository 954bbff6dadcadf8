package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/cuotakiwi/quote-service/internal/application/dto"
	"github.com/cuotakiwi/quote-service/internal/domain/model"
	"github.com/cuotakiwi/quote-service/internal/domain/port"
	"github.com/cuotakiwi/quote-service/internal/domain/service"
	"github.com/cuotakiwi/quote-service/internal/domain/valueobject"
	"github.com/cuotakiwi/quote-service/pkg/money"
)

const instrumentationName = "github.com/cuotakiwi/quote-service/internal/application/usecase"

// Outcome values recorded on the quote_requests counter.
const (
	outcomeApproved = "approved"
	outcomeDeclined = "declined"
	outcomeError    = "error"
)

// RequestQuoteUseCase obtains a pre-approval for an applicant and builds the
// initial option set.
type RequestQuoteUseCase struct {
	source    port.PreApprovalSource
	cache     port.PreApprovalCache
	catalog   port.RateProductCatalog
	publisher port.EventPublisher
	builder   *service.OptionSetBuilder
	currency  money.Currency
	logger    *slog.Logger

	tracer   trace.Tracer
	requests metric.Int64Counter
	inflight singleflight.Group
	now      func() time.Time
}

// NewRequestQuoteUseCase wires dependencies. cache may be nil.
func NewRequestQuoteUseCase(
	source port.PreApprovalSource,
	cache port.PreApprovalCache,
	catalog port.RateProductCatalog,
	publisher port.EventPublisher,
	builder *service.OptionSetBuilder,
	currency money.Currency,
	meter metric.Meter,
	logger *slog.Logger,
) (*RequestQuoteUseCase, error) {
	// Exported by the Prometheus exporter as quote_requests_total.
	requests, err := meter.Int64Counter("quote_requests",
		metric.WithDescription("Pre-approval requests by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("create quote_requests counter: %w", err)
	}
	return &RequestQuoteUseCase{
		source:    source,
		cache:     cache,
		catalog:   catalog,
		publisher: publisher,
		builder:   builder,
		currency:  currency,
		logger:    logger,
		tracer:    otel.Tracer(instrumentationName),
		requests:  requests,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

// Execute requests a pre-approval and returns the new quote. A declined
// applicant is returned as a DECLINED quote, not as an error.
func (uc *RequestQuoteUseCase) Execute(
	ctx context.Context,
	req dto.RequestQuoteRequest,
) (dto.QuoteStateResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "RequestQuote")
	defer span.End()

	// 1. Validate the applicant data.
	paReq, err := toPreApprovalRequest(req)
	if err != nil {
		return dto.QuoteStateResponse{}, err
	}
	span.SetAttributes(
		attribute.String("quote.document_type", paReq.DocumentType.String()),
		attribute.String("quote.branch_id", paReq.BranchID),
	)

	// 2. Fetch the pre-approval (deduplicated, cached).
	result, err := uc.fetch(ctx, paReq)
	if err != nil {
		uc.recordFailure(ctx, span, err)
		return dto.QuoteStateResponse{}, fmt.Errorf("request pre-approval: %w", err)
	}

	// 3. Build the quote.
	state, err := uc.buildState(ctx, paReq, result)
	if err != nil {
		uc.recordFailure(ctx, span, err)
		return dto.QuoteStateResponse{}, err
	}

	outcome := outcomeApproved
	if state.IsDeclined() {
		outcome = outcomeDeclined
		uc.logger.Info("pre-approval declined",
			"quote_id", state.ID(),
			"branch_id", paReq.BranchID,
			"reason", state.RejectionReason(),
		)
	} else {
		uc.logger.Info("pre-approval approved",
			"quote_id", state.ID(),
			"branch_id", paReq.BranchID,
			"max_approved_amount", state.RequestedAmount().String(),
			"options", len(state.Options()),
		)
	}
	uc.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
	span.SetAttributes(attribute.String("quote.id", state.ID()), attribute.String("quote.outcome", outcome))

	// 4. Publish domain events. Failure does not invalidate the quote.
	if err := uc.publisher.Publish(ctx, state.DomainEvents()...); err != nil {
		uc.logger.Warn("failed to publish quote events", "quote_id", state.ID(), "error", err)
	}
	state = state.ClearEvents()

	return toQuoteStateResponse(state, uc.currency), nil
}

func (uc *RequestQuoteUseCase) buildState(
	ctx context.Context,
	req port.PreApprovalRequest,
	result port.PreApprovalResult,
) (model.QuoteState, error) {
	if !result.Approved {
		return model.NewDeclinedQuoteState(result.RejectionReason, uc.now()), nil
	}

	product, err := uc.catalog.Lookup(ctx, req.BranchID)
	if err != nil {
		return model.QuoteState{}, fmt.Errorf("lookup rate product for branch %q: %w", req.BranchID, err)
	}
	pa := applyRateProduct(result.PreApproval, product)

	options, err := uc.builder.Build(pa)
	if err != nil {
		return model.QuoteState{}, fmt.Errorf("build options: %w", err)
	}
	state, err := model.NewApprovedQuoteState(pa, options, uc.now())
	if err != nil {
		return model.QuoteState{}, fmt.Errorf("create quote: %w", err)
	}
	return state, nil
}

// fetch collapses concurrent identical requests into one call to the source
// and serves recent results from the cache. The shared call outlives any
// single caller; each caller stops waiting when its own ctx ends.
func (uc *RequestQuoteUseCase) fetch(ctx context.Context, req port.PreApprovalRequest) (port.PreApprovalResult, error) {
	key := req.Key()
	flightCtx := context.WithoutCancel(ctx)
	ch := uc.inflight.DoChan(key, func() (any, error) {
		if uc.cache != nil {
			cached, ok, err := uc.cache.Get(flightCtx, key)
			if err != nil {
				uc.logger.Warn("pre-approval cache read failed", "error", err)
			} else if ok {
				return cached, nil
			}
		}

		result, err := uc.source.Request(flightCtx, req)
		if err != nil {
			return port.PreApprovalResult{}, err
		}

		if uc.cache != nil {
			if err := uc.cache.Set(flightCtx, key, result); err != nil {
				uc.logger.Warn("pre-approval cache write failed", "error", err)
			}
		}
		return result, nil
	})

	select {
	case <-ctx.Done():
		return port.PreApprovalResult{}, ctx.Err()
	case res := <-ch:
		if res.Shared {
			uc.logger.Debug("pre-approval request shared with in-flight call", "branch_id", req.BranchID)
		}
		if res.Err != nil {
			return port.PreApprovalResult{}, res.Err
		}
		return res.Val.(port.PreApprovalResult), nil
	}
}

func (uc *RequestQuoteUseCase) recordFailure(ctx context.Context, span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	uc.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcomeError)))

	switch {
	case errors.Is(err, model.ErrTransport):
		uc.logger.Warn("pre-approval source unavailable", "error", err)
	default:
		uc.logger.Error("pre-approval request failed", "error", err)
	}
}

func toPreApprovalRequest(req dto.RequestQuoteRequest) (port.PreApprovalRequest, error) {
	docType, err := valueobject.NewDocumentType(req.DocumentType)
	if err != nil {
		return port.PreApprovalRequest{}, fmt.Errorf("%w: %v", model.ErrInvalidArgument, err)
	}
	number := strings.TrimSpace(req.DocumentNumber)
	if number == "" {
		return port.PreApprovalRequest{}, fmt.Errorf("%w: document number is required", model.ErrInvalidArgument)
	}
	if req.MonthlyIncome.IsNegative() {
		return port.PreApprovalRequest{}, fmt.Errorf("%w: monthly income must not be negative", model.ErrInvalidArgument)
	}
	return port.PreApprovalRequest{
		DocumentType:   docType,
		DocumentNumber: number,
		MonthlyIncome:  req.MonthlyIncome,
		BranchID:       strings.TrimSpace(req.BranchID),
	}, nil
}

// applyRateProduct fills in the branch's surcharge and insurance loading,
// which the pre-approval response does not carry.
func applyRateProduct(pa model.PreApproval, product port.RateProduct) model.PreApproval {
	pa.RateProfile.SurchargeRate = product.SurchargeRate
	pa.RateProfile.InsuranceLoading = product.InsuranceLoading
	if pa.CampaignRateProfile != nil {
		campaign := *pa.CampaignRateProfile
		campaign.SurchargeRate = product.SurchargeRate
		campaign.InsuranceLoading = product.InsuranceLoading
		pa.CampaignRateProfile = &campaign
	}
	return pa
}
