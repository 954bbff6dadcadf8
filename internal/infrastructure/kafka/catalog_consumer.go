package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cuotakiwi/quote-service/internal/domain/port"
	pkgkafka "github.com/cuotakiwi/quote-service/pkg/kafka"
)

// RateProductUpdate is the payload of a catalog topic message.
type RateProductUpdate struct {
	BranchID         string          `json:"branch_id"`
	SurchargeRate    decimal.Decimal `json:"surcharge_rate"`
	InsuranceLoading decimal.Decimal `json:"insurance_loading"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (u RateProductUpdate) validate() error {
	if u.SurchargeRate.IsNegative() {
		return fmt.Errorf("surcharge_rate must not be negative")
	}
	if u.InsuranceLoading.IsNegative() {
		return fmt.Errorf("insurance_loading must not be negative")
	}
	return nil
}

// RateProductWriter persists a rate product.
type RateProductWriter interface {
	Upsert(ctx context.Context, p port.RateProduct, at time.Time) error
}

// CatalogReloader refreshes an in-memory catalog.
type CatalogReloader interface {
	Reload(ctx context.Context) error
}

// CatalogUpdateHandler applies rate product updates consumed from Kafka.
type CatalogUpdateHandler struct {
	writer   RateProductWriter
	reloader CatalogReloader
	logger   *slog.Logger
	now      func() time.Time
}

func NewCatalogUpdateHandler(writer RateProductWriter, reloader CatalogReloader, logger *slog.Logger) *CatalogUpdateHandler {
	return &CatalogUpdateHandler{
		writer:   writer,
		reloader: reloader,
		logger:   logger,
		now:      time.Now,
	}
}

// Handle implements pkgkafka.Handler. Malformed messages are logged and
// skipped so they are committed instead of redelivered forever. Storage
// failures are returned and the message stays uncommitted.
func (h *CatalogUpdateHandler) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var u RateProductUpdate
	if err := json.Unmarshal(msg.Value, &u); err != nil {
		h.logger.WarnContext(ctx, "skipping malformed rate product update", "key", string(msg.Key), "error", err)
		return nil
	}
	if err := u.validate(); err != nil {
		h.logger.WarnContext(ctx, "skipping invalid rate product update", "branch_id", u.BranchID, "error", err)
		return nil
	}

	at := u.UpdatedAt
	if at.IsZero() {
		at = h.now()
	}
	p := port.RateProduct{
		BranchID:         strings.TrimSpace(u.BranchID),
		SurchargeRate:    u.SurchargeRate,
		InsuranceLoading: u.InsuranceLoading,
	}

	if err := h.writer.Upsert(ctx, p, at.UTC()); err != nil {
		return fmt.Errorf("store rate product update: %w", err)
	}
	if err := h.reloader.Reload(ctx); err != nil {
		return fmt.Errorf("reload catalog after update: %w", err)
	}

	h.logger.InfoContext(ctx, "rate product updated",
		"branch_id", p.BranchID,
		"surcharge_rate", p.SurchargeRate.String(),
		"insurance_loading", p.InsuranceLoading.String(),
	)
	return nil
}
