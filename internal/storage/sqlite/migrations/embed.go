// Package migrations embeds the SQLite schema migrations.
package migrations

import "embed"

// FS holds the *.sql migration files, applied in lexical order.
//
//go:embed *.sql
var FS embed.FS
