package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/roach88/predsql/internal/expr"
	"github.com/roach88/predsql/internal/model"
	"github.com/roach88/predsql/internal/render"
	"github.com/roach88/predsql/internal/wherepart"
)

// ErrNoKey is returned by Get for entities without a key member.
var ErrNoKey = errors.New("entity has no key member")

// ErrNotFound is returned by Get when no row has the key.
var ErrNotFound = errors.New("not found")

// Table runs statements for one entity. Safe for concurrent use.
type Table struct {
	store    *Store
	model    *model.Descriptor
	renderer *render.Renderer
	stmts    Statements
	logger   hclog.Logger
}

// Model returns the entity descriptor.
func (t *Table) Model() *model.Descriptor { return t.model }

// Statements returns the prepared statement templates.
func (t *Table) Statements() Statements { return t.stmts }

// Render renders the predicate without running it.
func (t *Table) Render(l expr.Lambda) (wherepart.WherePart, error) {
	return t.renderer.Render(l)
}

// Where returns the rows matching the predicate.
func (t *Table) Where(ctx context.Context, l expr.Lambda) ([]Row, error) {
	wp, err := t.renderer.Render(l)
	if err != nil {
		return nil, fmt.Errorf("render predicate: %w", err)
	}

	query := t.stmts.Where(wp.SQL)
	t.logger.Debug("where", "predicate", l.String(), "sql", query, "params", wp.Names())
	return t.query(ctx, query, NamedValues(wp)...)
}

// All returns every row in the set.
func (t *Table) All(ctx context.Context) ([]Row, error) {
	return t.query(ctx, t.stmts.GetAll)
}

// Get returns the row with the given key.
func (t *Table) Get(ctx context.Context, key any) (Row, error) {
	if t.stmts.GetByKey == "" {
		return nil, fmt.Errorf("%s: %w", t.model.Name(), ErrNoKey)
	}

	rows, err := t.query(ctx, t.stmts.GetByKey, sql.Named(t.stmts.KeyParameter, key))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s %v: %w", t.model.Name(), key, ErrNotFound)
	}
	return rows[0], nil
}

// Count returns the number of rows in the set.
func (t *Table) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := t.store.db.QueryRowContext(ctx, t.stmts.RowCount).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", t.model.Set(), err)
	}
	return n, nil
}

func (t *Table) query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := t.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.model.Set(), err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns %s: %w", t.model.Set(), err)
	}

	out := []Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.model.Set(), err)
		}
		out = append(out, t.row(columns, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", t.model.Set(), err)
	}

	t.logger.Trace("rows", "count", len(out))
	return out, nil
}

// NamedValues converts the bindings into sql.Named arguments.
func NamedValues(wp wherepart.WherePart) []any {
	args := make([]any, len(wp.Params))
	for i, p := range wp.Params {
		args[i] = sql.Named(p.Name, p.Value)
	}
	return args
}
