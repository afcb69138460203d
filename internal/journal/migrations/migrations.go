// Package migrations embeds the state.db schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
