// Package assets embeds the seed defaults and the SQL migrations.
package assets

import "embed"

//go:embed seed.yaml
var Seed []byte

//go:embed migrations/*.sql
var Migrations embed.FS
