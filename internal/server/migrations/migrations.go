// Package migrations embeds the server's SQL schema scripts. They are applied
// in filename order by internal/migrate; every script must be safe to run
// twice.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
