// Package sqlite registers the pure-Go sqlite driver under the canonical
// "sqlite3" name so the rest of the codebase can stay driver-agnostic.
package sqlite

import (
	"database/sql"

	"modernc.org/sqlite"
)

//nolint:gochecknoinits // driver registration.
func init() {
	sql.Register("sqlite3", &sqlite.Driver{})
}
