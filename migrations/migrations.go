// Package migrations embeds the schema migrations for every supported store.
package migrations

import "embed"

// Directory names inside FS, one per storage driver.
const (
	PostgresDir = "postgres"
	SQLiteDir   = "sqlite"
)

// FS holds the golang-migrate up/down SQL files.
//
//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS
