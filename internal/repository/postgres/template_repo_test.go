package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"ticketinventory/internal/domain"
)

func mustKey(t *testing.T, eventID, sessionID, ticketType, price string) domain.TemplateKey {
	t.Helper()
	key, err := domain.ParseTemplateKey(eventID, sessionID, ticketType, price)
	require.NoError(t, err)
	return key
}

func TestTemplateRepository_LoadAggregate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name         string
		key          domain.TemplateKey
		mock         func(mock sqlmock.Sqlmock)
		wantCapacity int
		wantAssigned int
		wantErr      error
	}{
		{
			name: "event level template",
			key:  mustKey(t, "ev-1", "", "VIP", "99.90"),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT t.capacity`).
					WithArgs("ev-1", nil, "VIP", "99.9").
					WillReturnRows(sqlmock.NewRows([]string{"capacity", "count"}).AddRow(100, 42))
			},
			wantCapacity: 100,
			wantAssigned: 42,
		},
		{
			name: "session level template",
			key:  mustKey(t, "ev-1", "s-1", "GENERAL", "0"),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`session_id IS NOT DISTINCT FROM \$2`).
					WithArgs("ev-1", "s-1", "GENERAL", "0").
					WillReturnRows(sqlmock.NewRows([]string{"capacity", "count"}).AddRow(30, 0))
			},
			wantCapacity: 30,
		},
		{
			name: "missing template",
			key:  mustKey(t, "ev-2", "", "VIP", "1"),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT t.capacity`).WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "db error",
			key:  mustKey(t, "ev-3", "", "VIP", "1"),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT t.capacity`).WillReturnError(sql.ErrConnDone)
			},
			wantErr: sql.ErrConnDone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewTemplateRepository(db)
			capacity, assigned, err := repo.LoadAggregate(ctx, tt.key)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantCapacity, capacity)
			require.Equal(t, tt.wantAssigned, assigned)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTemplateRepository_Create(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO ticket_templates \(event_id, session_id, ticket_type, price, capacity, created_at\)`).
					WithArgs("ev-1", nil, "STUDENT", "12.5", 40, created).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "duplicate",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO ticket_templates`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrDuplicateTemplate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewTemplateRepository(db)
			err = repo.Create(ctx, &domain.TicketTemplate{
				Key:       mustKey(t, "ev-1", "", "STUDENT", "12.50"),
				Capacity:  40,
				CreatedAt: created,
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTemplateRepository_Delete(t *testing.T) {
	ctx := context.Background()
	key := mustKey(t, "ev-1", "s-1", "VIP", "10")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM ticket_templates`).
		WithArgs("ev-1", "s-1", "VIP", "10").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM ticket_templates`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewTemplateRepository(db)
	require.NoError(t, repo.Delete(ctx, key))
	require.ErrorIs(t, repo.Delete(ctx, key), domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplateRepository_ListKeys(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT event_id, session_id, ticket_type, price\s+FROM ticket_templates`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "session_id", "ticket_type", "price"}).
			AddRow("ev-1", nil, "GENERAL", "10.00").
			AddRow("ev-1", "s-2", "VIP", "55.5"))

	repo := NewTemplateRepository(db)
	keys, err := repo.ListKeys(ctx)
	require.NoError(t, err)
	require.Equal(t, []domain.TemplateKey{
		mustKey(t, "ev-1", "", "GENERAL", "10"),
		mustKey(t, "ev-1", "s-2", "VIP", "55.50"),
	}, keys)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTemplateRepository_ListKeysRejectsCorruptRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`FROM ticket_templates`).
		WillReturnRows(sqlmock.NewRows([]string{"event_id", "session_id", "ticket_type", "price"}).
			AddRow("ev-1", nil, "BACKSTAGE", "10"))

	_, err = NewTemplateRepository(db).ListKeys(context.Background())
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
