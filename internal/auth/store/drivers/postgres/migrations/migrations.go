package migrations

import "embed"

// Migrations holds the PostgreSQL schema.
//
//go:embed *.sql
var Migrations embed.FS
