package catalog

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cuotakiwi/quote-service/internal/domain/port"
)

// StaticCatalog prices every branch with the same configured product.
type StaticCatalog struct {
	product port.RateProduct
}

// NewStaticCatalog creates a catalog from configuration values.
func NewStaticCatalog(surchargeRate, insuranceLoading decimal.Decimal) *StaticCatalog {
	return &StaticCatalog{product: port.RateProduct{
		SurchargeRate:    surchargeRate,
		InsuranceLoading: insuranceLoading,
	}}
}

// Lookup implements port.RateProductCatalog.
func (c *StaticCatalog) Lookup(_ context.Context, branchID string) (port.RateProduct, error) {
	p := c.product
	p.BranchID = branchID
	return p, nil
}
