// Package migrations embeds the mysql schema migrations. Each file holds a
// single statement so the DSN does not need multiStatements.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
