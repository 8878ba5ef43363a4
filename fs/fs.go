// Package appfs embeds the SQL migrations and HTML templates into the binaries.
package appfs

import "embed"

//go:embed migrations templates
var FS embed.FS

// MigrationsDir returns the migrations directory of the given database engine.
func MigrationsDir(engine string) string {
	return "migrations/" + engine
}
