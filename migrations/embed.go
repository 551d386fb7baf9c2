// Package migrations embeds the versioned SQL schema for the server.
package migrations

import "embed"

//go:embed V*__*.sql
var FS embed.FS
