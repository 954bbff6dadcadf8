package postgres

import "embed"

// Migrations holds the schema of the rate product catalog.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations holding the SQL files.
const MigrationsDir = "migrations"
