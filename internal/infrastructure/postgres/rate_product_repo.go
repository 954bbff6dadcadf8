package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/cuotakiwi/quote-service/internal/domain/port"
	pkgpostgres "github.com/cuotakiwi/quote-service/pkg/postgres"
)

// DefaultBranchID is the catalog row used for branches without their own product.
const DefaultBranchID = "default"

// ErrRateProductNotFound is returned when neither the branch nor the default
// product exists.
var ErrRateProductNotFound = errors.New("rate product not found")

// RateProductRepo reads and writes the rate_products table.
type RateProductRepo struct {
	db pkgpostgres.Querier
}

// NewRateProductRepo creates a repository over a pool or transaction.
func NewRateProductRepo(db pkgpostgres.Querier) *RateProductRepo {
	return &RateProductRepo{db: db}
}

// Lookup returns the product for branchID, falling back to the default row.
// It implements port.RateProductCatalog.
func (r *RateProductRepo) Lookup(ctx context.Context, branchID string) (port.RateProduct, error) {
	query := `
		SELECT branch_id, surcharge_rate, insurance_loading
		FROM rate_products
		WHERE branch_id = $1 OR branch_id = $2
		ORDER BY (branch_id = $2) ASC
		LIMIT 1
	`
	p, err := scanRateProduct(r.db.QueryRow(ctx, query, normalizeBranch(branchID), DefaultBranchID))
	if errors.Is(err, pgx.ErrNoRows) {
		return port.RateProduct{}, fmt.Errorf("branch %q: %w", branchID, ErrRateProductNotFound)
	}
	if err != nil {
		return port.RateProduct{}, fmt.Errorf("lookup rate product: %w", err)
	}
	return p, nil
}

// ListAll returns every product in the catalog.
func (r *RateProductRepo) ListAll(ctx context.Context) ([]port.RateProduct, error) {
	query := `
		SELECT branch_id, surcharge_rate, insurance_loading
		FROM rate_products
		ORDER BY branch_id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query rate products: %w", err)
	}
	defer rows.Close()

	var products []port.RateProduct
	for rows.Next() {
		p, err := scanRateProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Upsert inserts or replaces the product of p.BranchID.
func (r *RateProductRepo) Upsert(ctx context.Context, p port.RateProduct, at time.Time) error {
	query := `
		INSERT INTO rate_products (branch_id, surcharge_rate, insurance_loading, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (branch_id) DO UPDATE SET
			surcharge_rate    = EXCLUDED.surcharge_rate,
			insurance_loading = EXCLUDED.insurance_loading,
			updated_at        = EXCLUDED.updated_at
		WHERE rate_products.updated_at <= EXCLUDED.updated_at
	`
	if _, err := r.db.Exec(ctx, query, normalizeBranch(p.BranchID), p.SurchargeRate, p.InsuranceLoading, at); err != nil {
		return fmt.Errorf("upsert rate product %q: %w", p.BranchID, err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

type scannable interface {
	Scan(dest ...any) error
}

func scanRateProduct(s scannable) (port.RateProduct, error) {
	var (
		branchID         string
		surchargeRate    decimal.Decimal
		insuranceLoading decimal.Decimal
	)
	if err := s.Scan(&branchID, &surchargeRate, &insuranceLoading); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return port.RateProduct{}, err
		}
		return port.RateProduct{}, fmt.Errorf("scan rate product: %w", err)
	}
	return port.RateProduct{
		BranchID:         branchID,
		SurchargeRate:    surchargeRate,
		InsuranceLoading: insuranceLoading,
	}, nil
}

func normalizeBranch(branchID string) string {
	b := strings.TrimSpace(branchID)
	if b == "" {
		return DefaultBranchID
	}
	return b
}

// TxRateProductWriter upserts rate products, each in its own transaction.
type TxRateProductWriter struct {
	db pkgpostgres.TxStarter
}

// NewTxRateProductWriter creates a writer over a pool.
func NewTxRateProductWriter(db pkgpostgres.TxStarter) *TxRateProductWriter {
	return &TxRateProductWriter{db: db}
}

// Upsert stores p inside a transaction.
func (w *TxRateProductWriter) Upsert(ctx context.Context, p port.RateProduct, at time.Time) error {
	return pkgpostgres.WithTransaction(ctx, w.db, func(q pkgpostgres.Querier) error {
		return NewRateProductRepo(q).Upsert(ctx, p, at)
	})
}
