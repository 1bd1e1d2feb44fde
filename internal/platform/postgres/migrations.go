package postgres

import "embed"

// MigrationsDir is the directory inside Migrations that holds the goose
// SQL files.
const MigrationsDir = "migrations"

// Migrations holds the schema migrations for the task store.
//
//go:embed migrations/*.sql
var Migrations embed.FS
