// Package migrations embeds the goose migrations of the durable cache area,
// one directory per SQL dialect.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
