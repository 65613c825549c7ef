package migrations

import "github.com/uptrace/bun/migrate"

// Migrations holds every schema change, named after the file that registers it.
var Migrations = migrate.NewMigrations()
