// Package migrations embeds the SQL schema files into the binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
