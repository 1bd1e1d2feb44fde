// Package testdb provides helpers for tests that run against a real
// Postgres database. Tests using it are skipped unless
// WORKFORCE_TEST_DB_URL or DATABASE_URL is set.
package testdb
