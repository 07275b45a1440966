package storage

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guttosm/garchcast/internal/domain/errs"
	"github.com/guttosm/garchcast/internal/domain/models"
)

type dummyErr struct{}

func (dummyErr) Error() string { return "dummy" }

func newMockRepo(t *testing.T, driver string) (*pricesRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	repo := &pricesRepository{db: db, driver: driver}
	cleanup := func() { _ = db.Close() }
	return repo, mock, cleanup
}

var readRegex = regexp.MustCompile(`SELECT ts, close FROM \(\s*SELECT ts, close FROM prices\s+WHERE ticker = \$1\s+ORDER BY ts DESC\s+LIMIT \$2\s*\) recent\s+ORDER BY ts ASC`)

func TestReadPrices_SQLMock(t *testing.T) {
	d1 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)

	cases := []struct {
		name    string
		rows    *sqlmock.Rows
		qErr    error
		want    int
		wantErr error
	}{
		{
			name: "ascending rows",
			rows: sqlmock.NewRows([]string{"ts", "close"}).AddRow(d1, 10.0).AddRow(d2, 10.5),
			want: 2,
		},
		{
			name:    "unknown ticker",
			rows:    sqlmock.NewRows([]string{"ts", "close"}),
			wantErr: errs.ErrTickerNotFound,
		},
		{
			name:    "driver failure",
			qErr:    dummyErr{},
			wantErr: errs.ErrRepository,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo, mock, done := newMockRepo(t, DriverPostgres)
			defer done()

			exp := mock.ExpectQuery(readRegex.String()).WithArgs("ABC", 10)
			if tc.qErr != nil {
				exp.WillReturnError(tc.qErr)
			} else {
				exp.WillReturnRows(tc.rows)
			}

			out, err := repo.ReadPrices(context.Background(), "ABC", 10)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				if len(out) != tc.want || !out[0].Timestamp.Equal(d1) || out[1].Price != 10.5 {
					t.Fatalf("unexpected rows: %+v", out)
				}
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestReadPrices_SQLiteRebind(t *testing.T) {
	repo, mock, done := newMockRepo(t, DriverSQLite)
	defer done()

	mock.ExpectQuery(`WHERE ticker = \?1\s+ORDER BY ts DESC\s+LIMIT \?2`).
		WithArgs("ABC", 5).
		WillReturnRows(sqlmock.NewRows([]string{"ts", "close"}).AddRow(time.Now(), 1.0))

	if _, err := repo.ReadPrices(context.Background(), "ABC", 5); err != nil {
		t.Fatalf("ReadPrices: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNewPricesRepository_Construct(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	defer func() { _ = db.Close() }()
	if r := NewPricesRepository(db, DriverPostgres); r == nil {
		t.Fatalf("expected non-nil repository")
	}
}

func sampleRows() []models.Observation {
	return []models.Observation{
		{Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Price: 10},
		{Timestamp: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), Price: 11},
	}
}

func TestUpsertPrices_CopyIn_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t, DriverPostgres)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TEMP TABLE prices_stage")).WillReturnResult(sqlmock.NewResult(0, 0))
	// pq.CopyIn is driver specific; accept any prepared statement and its row execs.
	prep := mock.ExpectPrepare(".*")
	prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0)) // final Exec()
	mock.ExpectExec(`INSERT INTO prices .* ON CONFLICT \(ticker, ts\)`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := repo.UpsertPrices(context.Background(), "ABC", sampleRows())
	if err != nil {
		t.Fatalf("UpsertPrices: %v", err)
	}
	if n != 2 {
		t.Fatalf("want 2 rows, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUpsertPrices_Errors(t *testing.T) {
	t.Run("begin", func(t *testing.T) {
		repo, mock, done := newMockRepo(t, DriverPostgres)
		defer done()
		mock.ExpectBegin().WillReturnError(dummyErr{})
		if _, err := repo.UpsertPrices(context.Background(), "ABC", sampleRows()); !errors.Is(err, errs.ErrRepository) {
			t.Fatalf("want ErrRepository, got %v", err)
		}
	})

	t.Run("row exec", func(t *testing.T) {
		repo, mock, done := newMockRepo(t, DriverPostgres)
		defer done()
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("CREATE TEMP TABLE prices_stage")).WillReturnResult(sqlmock.NewResult(0, 0))
		prep := mock.ExpectPrepare(".*")
		prep.ExpectExec().WillReturnError(dummyErr{})
		mock.ExpectRollback()
		if _, err := repo.UpsertPrices(context.Background(), "ABC", sampleRows()); err == nil {
			t.Fatalf("expected error on row exec")
		}
	})

	t.Run("merge", func(t *testing.T) {
		repo, mock, done := newMockRepo(t, DriverPostgres)
		defer done()
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("CREATE TEMP TABLE prices_stage")).WillReturnResult(sqlmock.NewResult(0, 0))
		prep := mock.ExpectPrepare(".*")
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(".*").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`INSERT INTO prices`).WillReturnError(dummyErr{})
		mock.ExpectRollback()
		if _, err := repo.UpsertPrices(context.Background(), "ABC", sampleRows()); err == nil {
			t.Fatalf("expected error on merge")
		}
	})

	t.Run("empty is a no-op", func(t *testing.T) {
		repo, mock, done := newMockRepo(t, DriverPostgres)
		defer done()
		n, err := repo.UpsertPrices(context.Background(), "ABC", nil)
		if err != nil || n != 0 {
			t.Fatalf("want 0,nil got %d,%v", n, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet expectations: %v", err)
		}
	})
}

func TestUpsertPrices_SQLite_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t, DriverSQLite)
	defer done()

	mock.ExpectBegin()
	prep := mock.ExpectPrepare(`INSERT INTO prices \(ticker, ts, close, updated_at\)\s+VALUES \(\?1, \?2, \?3, \?4\)`)
	prep.ExpectExec().WithArgs("ABC", sampleRows()[0].Timestamp, 10.0, sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(1, 1))
	prep.ExpectExec().WithArgs("ABC", sampleRows()[1].Timestamp, 11.0, sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	n, err := repo.UpsertPrices(context.Background(), "ABC", sampleRows())
	if err != nil || n != 2 {
		t.Fatalf("want 2,nil got %d,%v", n, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTickers_SQLMock(t *testing.T) {
	repo, mock, done := newMockRepo(t, DriverPostgres)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT ticker FROM prices ORDER BY ticker")).
		WillReturnRows(sqlmock.NewRows([]string{"ticker"}).AddRow("ABC").AddRow("PETR4"))

	got, err := repo.Tickers(context.Background())
	if err != nil {
		t.Fatalf("Tickers: %v", err)
	}
	if len(got) != 2 || got[0] != "ABC" || got[1] != "PETR4" {
		t.Fatalf("unexpected tickers: %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRebind(t *testing.T) {
	q := "SELECT 1 WHERE a = $1 AND b = $12"
	if got := Rebind(DriverPostgres, q); got != q {
		t.Fatalf("postgres query must be unchanged, got %q", got)
	}
	if got := Rebind(DriverSQLite, q); got != "SELECT 1 WHERE a = ?1 AND b = ?12" {
		t.Fatalf("unexpected sqlite rebind: %q", got)
	}
	if err := CheckDriver("mysql"); err == nil {
		t.Fatalf("expected unsupported driver error")
	}
}
