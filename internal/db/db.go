// Package db carries the SQL migrations compiled into the binary, so a
// deployed service can bring its schema up to date without shipping the
// migration files alongside it.
package db

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
