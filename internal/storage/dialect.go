package storage

import (
	"fmt"
	"regexp"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

var positional = regexp.MustCompile(`\$(\d+)`)

// Rebind rewrites PostgreSQL-style $N placeholders into the form expected by
// driver. Queries are written once, in PostgreSQL syntax.
func Rebind(driver, query string) string {
	if driver == DriverSQLite {
		return positional.ReplaceAllString(query, "?$1")
	}
	return query
}

// CheckDriver rejects drivers the repositories do not speak.
func CheckDriver(driver string) error {
	switch driver {
	case DriverPostgres, DriverSQLite:
		return nil
	default:
		return fmt.Errorf("unsupported database driver %q", driver)
	}
}
