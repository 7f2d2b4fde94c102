// Package migrations embeds the goose SQL migrations for the Postgres
// backend. kv.Open applies them at startup and testutil applies them before
// integration tests.
package migrations

import "embed"

// FS holds every *.sql migration, embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
