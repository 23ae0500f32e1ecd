// Package store runs rendered predicates against a database.
//
// It is a thin reference adapter: a Table renders an expr.Lambda for one
// entity, splices the fragment into a statement prepared from the entity's
// set and key, and binds the parameters by name.
//
// # Statements
//
// Statements are built once per entity (PrepareStatements):
//   - RowCount: SELECT COUNT(*) FROM <set>
//   - GetByKey: SELECT * FROM <set> WHERE <key> = <placeholder>
//   - GetAll:   SELECT * FROM <set>
//   - Where:    SELECT * FROM <set> WHERE <fragment>
//
// # Drivers
//
//   - database/sql: parameters are passed as sql.Named values. SQLite
//     (mattn/go-sqlite3) accepts both :name and @name placeholders.
//   - pgx: QueryPgx passes pgx.NamedArgs, which rewrites @name
//     placeholders into $n positions.
//
// # Database Configuration (Open)
//
//   - WAL mode: Concurrent reads during writes
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
