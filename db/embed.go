// Package db provides the embedded database schema and seed data.
package db

import _ "embed"

// Schema contains the DDL statements for all application tables.
//
//go:embed migrations/001_schema.sql
var Schema string

// MenuSeed is the canned menu catalog, shared by the in-memory driver and
// the seed-db command.
//
//go:embed seed/menu.json
var MenuSeed []byte
