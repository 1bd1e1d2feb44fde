// Package postgres implements store.TaskStore on PostgreSQL through the pgx
// database/sql driver. Comments and activity logs are kept as JSONB columns
// on the tasks row, and the schema ships with the package as embedded goose
// migrations (see Migrations).
package postgres
