package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/roach88/predsql/internal/expr"
	"github.com/roach88/predsql/internal/render"
	"github.com/roach88/predsql/internal/wherepart"
)

// PgxQuerier is the query surface shared by *pgx.Conn, *pgxpool.Pool and
// pgx.Tx.
type PgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// NamedArgs converts the bindings into pgx named arguments. Used with the
// postgres dialect, whose @name placeholders pgx rewrites to $n.
func NamedArgs(wp wherepart.WherePart) pgx.NamedArgs {
	args := make(pgx.NamedArgs, len(wp.Params))
	for _, p := range wp.Params {
		args[p.Name] = p.Value
	}
	return args
}

// QueryPgx renders the predicate with r and runs it through q.
func QueryPgx(ctx context.Context, q PgxQuerier, r *render.Renderer, l expr.Lambda) ([]Row, error) {
	wp, err := r.Render(l)
	if err != nil {
		return nil, fmt.Errorf("render predicate: %w", err)
	}

	d := r.Model()
	query := PrepareStatements(r.Dialect(), d).Where(wp.SQL)

	rows, err := q.Query(ctx, query, NamedArgs(wp))
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", d.Set(), err)
	}
	defer rows.Close()

	var columns []string
	for _, fd := range rows.FieldDescriptions() {
		columns = append(columns, fd.Name)
	}

	out := []Row{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", d.Set(), err)
		}
		out = append(out, mapRow(d, columns, values))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", d.Set(), err)
	}
	return out, nil
}
