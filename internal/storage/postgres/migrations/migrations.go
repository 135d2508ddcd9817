// Package migrations embeds the schema for the Postgres storage backend.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files, applied in filename order.
//
//go:embed *.sql
var FS embed.FS
