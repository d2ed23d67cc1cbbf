// Package migrations holds the SQLite schema of the contacts store.
package migrations

import "embed"

// FS contains embedded SQLite migrations for the contacts store.
//
//go:embed *.sql
var FS embed.FS
