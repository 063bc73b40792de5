// Package schemas provides embedded SQL migration files, one directory per dialect.
package schemas

import "embed"

// Migrations contains the migration files under migrations/<dialect>/.
//
//go:embed migrations/*/*.sql
var Migrations embed.FS
