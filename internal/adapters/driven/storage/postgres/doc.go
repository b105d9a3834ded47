// Package postgres provides a PostgreSQL-backed analytics store using pgxpool.
//
// The schema is applied from embedded migrations on startup. Migrations are
// serialised across processes with an advisory lock and tracked in a
// schema_migrations table.
package postgres
