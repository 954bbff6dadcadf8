package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuotakiwi/quote-service/internal/domain/port"
)

// --- fakes ---

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(r.values, dest)
}

type fakeRows struct {
	rows [][]any
	pos  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.rows[r.pos-1], nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return assign(r.rows[r.pos-1], dest) }

func assign(values, dest []any) error {
	if len(values) != len(dest) {
		return fmt.Errorf("scan: %d values into %d targets", len(values), len(dest))
	}
	for i, v := range values {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *decimal.Decimal:
			*d = v.(decimal.Decimal)
		default:
			return fmt.Errorf("scan: unsupported target %T", d)
		}
	}
	return nil
}

type fakeQuerier struct {
	queryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row
	queryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	execArgs     [][]any
	execErr      error
}

func (q *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return q.queryRowFunc(ctx, sql, args...)
}

func (q *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return q.queryFunc(ctx, sql, args...)
}

func (q *fakeQuerier) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	q.execArgs = append(q.execArgs, args)
	return pgconn.NewCommandTag("INSERT 0 1"), q.execErr
}

func row(branch, surcharge, loading string) []any {
	return []any{branch, decimal.RequireFromString(surcharge), decimal.RequireFromString(loading)}
}

// --- tests ---

func TestRateProductRepo_Lookup(t *testing.T) {
	t.Run("branch row", func(t *testing.T) {
		var gotArgs []any
		q := &fakeQuerier{queryRowFunc: func(_ context.Context, _ string, args ...any) pgx.Row {
			gotArgs = args
			return fakeRow{values: row("LIM-001", "0.18", "0.0006")}
		}}

		p, err := NewRateProductRepo(q).Lookup(context.Background(), " LIM-001 ")
		require.NoError(t, err)
		assert.Equal(t, "LIM-001", p.BranchID)
		assert.True(t, p.InsuranceLoading.Equal(decimal.RequireFromString("0.0006")))
		assert.Equal(t, []any{"LIM-001", DefaultBranchID}, gotArgs)
	})

	t.Run("empty branch uses default", func(t *testing.T) {
		var gotArgs []any
		q := &fakeQuerier{queryRowFunc: func(_ context.Context, _ string, args ...any) pgx.Row {
			gotArgs = args
			return fakeRow{values: row(DefaultBranchID, "0.18", "0.00058")}
		}}

		_, err := NewRateProductRepo(q).Lookup(context.Background(), "")
		require.NoError(t, err)
		assert.Equal(t, DefaultBranchID, gotArgs[0])
	})

	t.Run("no rows", func(t *testing.T) {
		q := &fakeQuerier{queryRowFunc: func(_ context.Context, _ string, _ ...any) pgx.Row {
			return fakeRow{err: pgx.ErrNoRows}
		}}

		_, err := NewRateProductRepo(q).Lookup(context.Background(), "X")
		assert.ErrorIs(t, err, ErrRateProductNotFound)
	})

	t.Run("query failure", func(t *testing.T) {
		boom := errors.New("conn closed")
		q := &fakeQuerier{queryRowFunc: func(_ context.Context, _ string, _ ...any) pgx.Row {
			return fakeRow{err: boom}
		}}

		_, err := NewRateProductRepo(q).Lookup(context.Background(), "X")
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, ErrRateProductNotFound)
	})
}

func TestRateProductRepo_ListAll(t *testing.T) {
	q := &fakeQuerier{queryFunc: func(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
		return &fakeRows{rows: [][]any{
			row("AQP-002", "0.18", "0.0007"),
			row(DefaultBranchID, "0.18", "0.00058"),
		}}, nil
	}}

	products, err := NewRateProductRepo(q).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "AQP-002", products[0].BranchID)
	assert.Equal(t, DefaultBranchID, products[1].BranchID)
}

func TestRateProductRepo_Upsert(t *testing.T) {
	q := &fakeQuerier{}
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := port.RateProduct{
		BranchID:         "CUZ-003",
		SurchargeRate:    decimal.RequireFromString("0.18"),
		InsuranceLoading: decimal.RequireFromString("0.0005"),
	}

	require.NoError(t, NewRateProductRepo(q).Upsert(context.Background(), p, at))
	require.Len(t, q.execArgs, 1)
	assert.Equal(t, "CUZ-003", q.execArgs[0][0])
	assert.Equal(t, at, q.execArgs[0][3])

	q.execErr = errors.New("read only")
	assert.Error(t, NewRateProductRepo(q).Upsert(context.Background(), p, at))
}
