package app

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/guttosm/garchcast/config"
)

var pgConfig = config.Config{Postgres: config.PostgresConfig{User: "u", Password: "p", Host: "h", Port: 5432, DBName: "d", SSLMode: "disable"}}

func TestInitDB_OpenError(t *testing.T) {
	old := sqlOpener
	sqlOpener = func(driverName, dataSourceName string) (*sql.DB, error) {
		return nil, errors.New("open failed")
	}
	t.Cleanup(func() { sqlOpener = old })

	if _, err := InitDB(pgConfig); err == nil {
		t.Fatalf("expected error from InitDB when open fails")
	}
}

func TestInitDB_PingError(t *testing.T) {
	old := sqlOpener
	sqlOpener = func(driverName, dataSourceName string) (*sql.DB, error) {
		db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
		if err != nil {
			t.Fatalf("sqlmock new: %v", err)
		}
		mock.ExpectPing().WillReturnError(errors.New("ping failed"))
		mock.ExpectClose()
		return db, nil
	}
	t.Cleanup(func() { sqlOpener = old })

	if _, err := InitDB(pgConfig); err == nil {
		t.Fatalf("expected ping error from InitDB")
	}
}

func TestInitDB_DriverAndDSN(t *testing.T) {
	dir := t.TempDir()
	sqlitePath := filepath.Join(dir, "nested", "prices.db")

	cases := []struct {
		name       string
		cfg        config.Config
		wantDriver string
		wantDSN    string
	}{
		{name: "default driver", cfg: pgConfig, wantDriver: "postgres", wantDSN: "postgres://u:p@h:5432/d?sslmode=disable"},
		{
			name:       "sqlite",
			cfg:        config.Config{Database: config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: sqlitePath}},
			wantDriver: "sqlite3",
			wantDSN:    "file:" + sqlitePath + "?_foreign_keys=on&_busy_timeout=5000",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var gotDriver, gotDSN string
			old := sqlOpener
			sqlOpener = func(driverName, dataSourceName string) (*sql.DB, error) {
				gotDriver, gotDSN = driverName, dataSourceName
				db, _, err := sqlmock.New()
				return db, err
			}
			t.Cleanup(func() { sqlOpener = old })

			db, err := InitDB(tc.cfg)
			if err != nil {
				t.Fatalf("InitDB: %v", err)
			}
			_ = db.Close()
			if gotDriver != tc.wantDriver || gotDSN != tc.wantDSN {
				t.Fatalf("opened %s %q, want %s %q", gotDriver, gotDSN, tc.wantDriver, tc.wantDSN)
			}
		})
	}
}

func TestInitDB_SQLiteFile(t *testing.T) {
	cfg := config.Config{Database: config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "db", "garchcast.db")}}
	db, err := InitDB(cfg)
	if err != nil {
		t.Fatalf("InitDB sqlite: %v", err)
	}
	defer db.Close()
	if _, err := db.Exec(`CREATE TABLE t (id INTEGER)`); err != nil {
		t.Fatalf("exec: %v", err)
	}
}
