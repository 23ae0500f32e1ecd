package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/predsql/internal/dialect"
	"github.com/roach88/predsql/internal/expr"
	"github.com/roach88/predsql/internal/render"
)

func names(ps []person) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestTable_WhereSQLite(t *testing.T) {
	s := createTestStore(t)
	seedPeople(t, s)
	table := s.Table(people)
	x := expr.Row("x")

	tests := []struct {
		name string
		body expr.Node
		want []string
	}{
		{"integer comparison", expr.Gt(expr.Field(x, "Age"), expr.Const(18)), []string{"alice", "carol", "alfred"}},
		{"boolean member", expr.Field(x, "IsActive"), []string{"alice", "bob", "alfred"}},
		{"not boolean member", expr.Invert(expr.Field(x, "IsActive")), []string{"carol"}},
		{"starts with", expr.StartsWith(expr.Field(x, "Name"), expr.Const("al")), []string{"alice", "alfred"}},
		{"contains", expr.Contains(expr.Field(x, "Name"), expr.Const("ro")), []string{"carol"}},
		{"ends with", expr.EndsWith(expr.Field(x, "Name"), expr.Const("b")), []string{"bob"}},
		{"in", expr.In(expr.Const([]int64{1, 3}), expr.Field(x, "Id")), []string{"alice", "carol"}},
		{"empty in matches nothing", expr.In(expr.Const([]int64{}), expr.Field(x, "Id")), []string{}},
		{"not in empty matches everything", expr.Invert(expr.In(expr.Const([]int64{}), expr.Field(x, "Id"))), []string{"alice", "bob", "carol", "alfred"}},
		{"negated negative literal", expr.Gt(expr.Field(x, "Age"), expr.Neg(expr.Const(-18))), []string{"alice", "carol", "alfred"}},
		{
			"negated negative literal keeps later clauses",
			expr.Both(expr.Gt(expr.Field(x, "Age"), expr.Neg(expr.Const(-18))), expr.Field(x, "IsActive")),
			[]string{"alice", "alfred"},
		},
		{"float bound", expr.Ge(expr.Field(x, "Score"), expr.Const(7.25)), []string{"alice", "carol"}},
		{
			"time bound",
			expr.Lt(expr.Field(x, "Joined"), expr.Const(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))),
			[]string{"alice", "bob"},
		},
		{
			"combined",
			expr.Both(expr.Field(x, "IsActive"), expr.Either(expr.Lt(expr.Field(x, "Age"), expr.Const(18)), expr.Gt(expr.Field(x, "Age"), expr.Const(60)))),
			[]string{"bob", "alfred"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Find[person](context.Background(), table, expr.Where(x, tt.body))
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, names(got))
		})
	}
}

func TestFind_DecodesMembers(t *testing.T) {
	s := createTestStore(t)
	seedPeople(t, s)
	x := expr.Row("x")

	got, err := Find[person](context.Background(), s.Table(people), expr.Where(x, expr.Eq(expr.Field(x, "Id"), expr.Const(1))))
	require.NoError(t, err)
	require.Len(t, got, 1)

	alice := got[0]
	assert.Equal(t, int64(1), alice.Id)
	assert.Equal(t, "alice", alice.Name)
	assert.Equal(t, 34, alice.Age)
	assert.Equal(t, 9.5, alice.Score)
	assert.True(t, alice.IsActive)
	assert.True(t, alice.Joined.Equal(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)))
	require.NotNil(t, alice.Nickname)
	assert.Equal(t, "al", *alice.Nickname)
}

func TestTable_GetCountAll(t *testing.T) {
	s := createTestStore(t)
	seedPeople(t, s)
	table := s.Table(people)
	ctx := context.Background()

	row, err := table.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), row["Id"])
	assert.Contains(t, row, "Name", "columns are keyed by member name")

	var bob person
	require.NoError(t, row.Decode(&bob))
	assert.Equal(t, "bob", bob.Name)
	assert.Nil(t, bob.Nickname)

	_, err = table.Get(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)

	n, err := table.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	all, err := table.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestTable_RenderErrors(t *testing.T) {
	s := createTestStore(t)
	seedPeople(t, s)
	table := s.Table(people)
	x := expr.Row("x")
	ctx := context.Background()

	_, err := table.Where(ctx, expr.Where(x, expr.Eq(expr.Field(x, "Email"), expr.Const("a"))))
	assert.True(t, render.IsUnmappedMember(err))

	_, err = table.Where(ctx, expr.Where(x, expr.Eq(expr.Xor(expr.Field(x, "Age"), expr.Const(1)), expr.Const(0))))
	assert.True(t, render.IsUnsupportedNode(err), "sqlite has no xor")
}

func TestTable_GetWithoutKey(t *testing.T) {
	type tag struct{ Label string }

	s := createTestStore(t)
	_, err := s.Table(mustDescribe[tag](t)).Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNoKey)
}

func TestStatements(t *testing.T) {
	stmts := PrepareStatements(dialect.SQLServer, people)

	assert.Equal(t, "SELECT COUNT(*) FROM [people]", stmts.RowCount)
	assert.Equal(t, "SELECT * FROM [people]", stmts.GetAll)
	assert.Equal(t, "SELECT * FROM [people] WHERE [Id] = @Id", stmts.GetByKey)
	assert.Equal(t, "Id", stmts.KeyParameter)
	assert.Equal(t, "SELECT * FROM [people] WHERE [Age] > 18", stmts.Where("[Age] > 18"))

	pg := PrepareStatements(dialect.Postgres, people)
	assert.Equal(t, `SELECT * FROM "people" WHERE "Id" = @Id`, pg.GetByKey)
}

func TestParameterName(t *testing.T) {
	assert.Equal(t, "order_no", parameterName("order_no"))
	assert.Equal(t, "order_no_", parameterName("order no!"))
}

func newMockStore(t *testing.T, opts ...Option) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return New(db, append([]Option{WithDialect(dialect.SQLServer)}, opts...)...), mock
}

func TestTable_WhereBindsNamedParameters(t *testing.T) {
	var logs bytes.Buffer
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "store",
		Level:  hclog.Debug,
		Output: &logs,
	})

	s, mock := newMockStore(t, WithLogger(logger))
	x := expr.Row("x")

	mock.ExpectQuery("SELECT * FROM [people] WHERE ([full_name] LIKE @p1) AND ([is_active] = @p2)").
		WithArgs(sql.Named("p1", "%li%"), sql.Named("p2", true)).
		WillReturnRows(sqlmock.NewRows([]string{"Id", "full_name", "extra"}).
			AddRow(int64(1), "alice", "x"))

	rows, err := s.Table(people).Where(context.Background(), expr.Where(x, expr.Both(
		expr.Contains(expr.Field(x, "Name"), expr.Const("li")),
		expr.Field(x, "IsActive"),
	)))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, Row{"Id": int64(1), "Name": "alice", "extra": "x"}, rows[0])

	assert.Contains(t, logs.String(), "store.person: where")
	assert.Contains(t, logs.String(), "[full_name] LIKE @p1")
}

func TestTable_GetBindsKey(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT * FROM [people] WHERE [Id] = @Id").
		WithArgs(sql.Named("Id", 7)).
		WillReturnRows(sqlmock.NewRows([]string{"Id"}).AddRow(int64(7)))

	row, err := s.Table(people).Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), row["Id"])
}

func TestTable_CountMock(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery("SELECT COUNT(*) FROM [people]").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(12)))

	n, err := s.Table(people).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), n)
}

func TestTable_QueryError(t *testing.T) {
	s, mock := newMockStore(t)
	x := expr.Row("x")
	boom := errors.New("connection reset")

	mock.ExpectQuery("SELECT * FROM [people] WHERE [Age] > 18").WillReturnError(boom)

	_, err := s.Table(people).Where(context.Background(), expr.Where(x, expr.Gt(expr.Field(x, "Age"), expr.Const(18))))
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "query people")
}

func TestRow_DecodeErrors(t *testing.T) {
	var p person
	assert.Error(t, Row{}.Decode(p), "non-pointer")
	assert.Error(t, Row{"Age": "old"}.Decode(&p))
	assert.NoError(t, Row{"Unknown": 1}.Decode(&p))
}
