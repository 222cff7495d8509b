// Package migrations embeds the SQL schema migrations for the booking log.
package migrations

import "embed"

// FS holds the versioned migration files.
//
//go:embed *.sql
var FS embed.FS
