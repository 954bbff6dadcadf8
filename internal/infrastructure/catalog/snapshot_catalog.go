package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/cuotakiwi/quote-service/internal/domain/port"
)

// defaultBranchID matches the catalog row every unknown branch falls back to.
const defaultBranchID = "default"

// Loader lists every rate product. Satisfied by the Postgres repository.
type Loader interface {
	ListAll(ctx context.Context) ([]port.RateProduct, error)
}

// SnapshotCatalog serves lookups from an in-memory copy of the catalog and
// refreshes it on demand. Lookups never touch the database.
type SnapshotCatalog struct {
	loader   Loader
	fallback port.RateProduct
	logger   *slog.Logger

	mu       sync.RWMutex
	products map[string]port.RateProduct
}

// NewSnapshotCatalog creates a catalog. fallback is used when the snapshot
// holds neither the branch nor a default row.
func NewSnapshotCatalog(loader Loader, fallback port.RateProduct, logger *slog.Logger) *SnapshotCatalog {
	return &SnapshotCatalog{
		loader:   loader,
		fallback: fallback,
		logger:   logger,
		products: map[string]port.RateProduct{},
	}
}

// Reload replaces the snapshot with the loader's current contents. On error
// the previous snapshot is kept.
func (c *SnapshotCatalog) Reload(ctx context.Context) error {
	products, err := c.loader.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("reload rate products: %w", err)
	}

	next := make(map[string]port.RateProduct, len(products))
	for _, p := range products {
		next[p.BranchID] = p
	}

	c.mu.Lock()
	c.products = next
	c.mu.Unlock()

	c.logger.InfoContext(ctx, "rate product catalog reloaded", "products", len(next))
	return nil
}

// Lookup implements port.RateProductCatalog.
func (c *SnapshotCatalog) Lookup(_ context.Context, branchID string) (port.RateProduct, error) {
	branch := strings.TrimSpace(branchID)

	c.mu.RLock()
	defer c.mu.RUnlock()

	if p, ok := c.products[branch]; ok {
		return p, nil
	}
	if p, ok := c.products[defaultBranchID]; ok {
		p.BranchID = branch
		return p, nil
	}
	p := c.fallback
	p.BranchID = branch
	return p, nil
}

// Len returns the number of products in the snapshot.
func (c *SnapshotCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}
