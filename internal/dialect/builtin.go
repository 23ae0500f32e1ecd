package dialect

import "github.com/roach88/predsql/internal/expr"

func init() {
	Register(SQLServer)
	Register(Postgres)
	Register(SQLite)
}

// SQLServer renders T-SQL: @p1 placeholders and bracketed columns.
var SQLServer = New(Config{
	Name:          "sqlserver",
	ParameterName: "p%d",
	Placeholder:   "@%s",
	Column:        "[%s]",
	True:          "1",
	Operators:     withOperator(expr.ExclusiveOr, "^"),
})

// Postgres renders @p1 placeholders for pgx named arguments.
var Postgres = New(Config{
	Name:          "postgres",
	ParameterName: "p%d",
	Placeholder:   "@%s",
	Column:        `"%s"`,
	True:          "TRUE",
	Operators:     withOperator(expr.ExclusiveOr, "#"),
})

// SQLite renders :p1 placeholders. SQLite has no bitwise XOR operator, so
// ExclusiveOr is unsupported.
var SQLite = New(Config{
	Name:          "sqlite",
	ParameterName: "p%d",
	Placeholder:   ":%s",
	Column:        `"%s"`,
	True:          "1",
	Operators:     StandardOperators(),
})

func withOperator(kind expr.Kind, keyword string) map[expr.Kind]string {
	ops := StandardOperators()
	ops[kind] = keyword
	return ops
}
