package migrations

import "embed"

// FS contains embedded SQLite migrations for race entry storage.
//
//go:embed *.sql
var FS embed.FS
