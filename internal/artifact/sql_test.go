package artifact

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/guttosm/garchcast/internal/domain/errs"
	"github.com/guttosm/garchcast/internal/domain/models"
	"github.com/guttosm/garchcast/internal/storage"
)

func newMockStore(t *testing.T, driver string) (*SQLStore, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	return NewSQLStore(db, driver), mock, func() { _ = db.Close() }
}

func TestSQLStore_Put(t *testing.T) {
	cases := []struct {
		name   string
		driver string
		query  string
	}{
		{name: "postgres", driver: storage.DriverPostgres, query: "INSERT INTO model_artifacts (id, ticker, fitted_at, payload) VALUES ($1, $2, $3, $4)"},
		{name: "sqlite", driver: storage.DriverSQLite, query: "INSERT INTO model_artifacts (id, ticker, fitted_at, payload) VALUES (?1, ?2, ?3, ?4)"},
	}
	at := time.Date(2024, 10, 18, 21, 0, 0, 0, time.UTC)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, mock, done := newMockStore(t, tc.driver)
			defer done()
			mock.ExpectExec(regexp.QuoteMeta(tc.query)).
				WithArgs("ABC_20241018T210000.000000Z", "ABC", at, `{"x":1}`).
				WillReturnResult(sqlmock.NewResult(1, 1))

			info := models.ArtifactInfo{ID: NewID("ABC", at), Ticker: "ABC", FittedAt: at}
			if err := store.Put(context.Background(), info, []byte(`{"x":1}`)); err != nil {
				t.Fatalf("put: %v", err)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Fatalf("unmet expectations: %v", err)
			}
		})
	}
}

func TestSQLStore_Get(t *testing.T) {
	cases := []struct {
		name    string
		setup   func(sqlmock.Sqlmock)
		want    string
		wantErr error
	}{
		{
			name: "found",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta("SELECT payload FROM model_artifacts WHERE id = $1")).
					WithArgs("ABC_20241018T210000.000000Z").
					WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(`{"a":1}`))
			},
			want: `{"a":1}`,
		},
		{
			name: "missing",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("SELECT payload").WillReturnError(sql.ErrNoRows)
			},
			wantErr: errs.ErrArtifactNotFound,
		},
		{
			name: "driver failure",
			setup: func(m sqlmock.Sqlmock) {
				m.ExpectQuery("SELECT payload").WillReturnError(errors.New("conn reset"))
			},
			wantErr: errs.ErrRepository,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store, mock, done := newMockStore(t, storage.DriverPostgres)
			defer done()
			tc.setup(mock)

			got, err := store.Get(context.Background(), "ABC_20241018T210000.000000Z")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("want %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil || string(got) != tc.want {
				t.Fatalf("got %q err=%v", got, err)
			}
		})
	}
}

func TestSQLStore_List(t *testing.T) {
	store, mock, done := newMockStore(t, storage.DriverPostgres)
	defer done()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM model_artifacts WHERE ticker = $1 ORDER BY fitted_at DESC, id DESC")).
		WithArgs("ABC").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow("ABC_20241019T100000.000000Z").
			AddRow("ABC_20241018T210000.000000Z"))

	got, err := store.List(context.Background(), "ABC")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || got[0].ID != "ABC_20241019T100000.000000Z" || got[0].Ticker != "ABC" {
		t.Fatalf("unexpected list: %+v", got)
	}
	if !got[0].FittedAt.Equal(time.Date(2024, 10, 19, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("fit time not recovered from id: %v", got[0].FittedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLStore_ListEmptyAndError(t *testing.T) {
	store, mock, done := newMockStore(t, storage.DriverPostgres)
	defer done()

	mock.ExpectQuery("SELECT id FROM model_artifacts").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	got, err := store.List(context.Background(), "ABC")
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil list, got %+v err=%v", got, err)
	}

	mock.ExpectQuery("SELECT id FROM model_artifacts").WillReturnError(errors.New("down"))
	if _, err := store.List(context.Background(), "ABC"); !errors.Is(err, errs.ErrRepository) {
		t.Fatalf("want ErrRepository, got %v", err)
	}
}
