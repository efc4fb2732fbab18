package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"conferencecentral/internal/domain"
)

var sessionRowColumns = []string{"id", "conference_id", "name", "highlights", "speaker_email", "speaker_name", "date", "duration", "start_time", "session_type", "created_at"}

func TestSessionRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("with speaker upserts the speaker", func(t *testing.T) {
		start := 930
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO speakers .* ON CONFLICT \(email\) DO UPDATE`).
			WithArgs("grace@example.com", "Grace", "sess-1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO sessions`).
			WithArgs("sess-1", "conf-1", "Compilers", "", "grace@example.com", "Grace", nil, 60, 930, "LECTURE").
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(testTime))
		mock.ExpectCommit()

		s := &domain.Session{
			ID: "sess-1", ConferenceID: "conf-1", Name: "Compilers",
			Speaker:  domain.SessionSpeaker{Email: "grace@example.com", Name: "Grace"},
			Duration: 60, StartTime: &start, SessionType: domain.SessionTypeLecture,
		}
		require.NoError(t, NewSessionRepository(db).Create(ctx, s))
		require.Equal(t, testTime, s.CreatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("without speaker skips the upsert", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO sessions`).
			WithArgs("sess-2", "conf-1", "Panel", "", nil, "", nil, 0, nil, "NOT_SPECIFIED").
			WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(testTime))
		mock.ExpectCommit()

		s := &domain.Session{ID: "sess-2", ConferenceID: "conf-1", Name: "Panel", SessionType: domain.SessionTypeNotSpecified}
		require.NoError(t, NewSessionRepository(db).Create(ctx, s))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSessionRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	date := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	start := 1400

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .* FROM sessions WHERE id = \$1`).
			WithArgs("sess-1").
			WillReturnRows(sqlmock.NewRows(sessionRowColumns).
				AddRow("sess-1", "conf-1", "Compilers", "parsing", nil, "", date, 45, 1400, "WORKSHOP", testTime))

		got, err := NewSessionRepository(db).GetByID(ctx, "sess-1")
		require.NoError(t, err)
		require.Equal(t, &domain.Session{
			ID: "sess-1", ConferenceID: "conf-1", Name: "Compilers", Highlights: "parsing",
			Date: &date, Duration: 45, StartTime: &start, SessionType: domain.SessionTypeWorkshop, CreatedAt: testTime,
		}, got)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM sessions`).WithArgs("sess-x").WillReturnError(sql.ErrNoRows)
		_, err = NewSessionRepository(db).GetByID(ctx, "sess-x")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSessionRepository_Lists(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		args  []driver.Value
		call  func(r domain.SessionRepository) ([]*domain.Session, error)
	}{
		{
			name:  "by conference",
			query: `WHERE conference_id = \$1 ORDER BY`,
			args:  []driver.Value{"conf-1"},
			call: func(r domain.SessionRepository) ([]*domain.Session, error) {
				return r.ListByConferenceID(ctx, "conf-1")
			},
		},
		{
			name:  "by type",
			query: `WHERE conference_id = \$1 AND session_type = \$2`,
			args:  []driver.Value{"conf-1", "KEYNOTE"},
			call: func(r domain.SessionRepository) ([]*domain.Session, error) {
				return r.ListByConferenceAndType(ctx, "conf-1", domain.SessionTypeKeynote)
			},
		},
		{
			name:  "by date",
			query: `WHERE conference_id = \$1 AND date = \$2`,
			args:  []driver.Value{"conf-1", "2025-06-10"},
			call: func(r domain.SessionRepository) ([]*domain.Session, error) {
				return r.ListByConferenceAndDate(ctx, "conf-1", time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC))
			},
		},
		{
			name:  "excluding type before time",
			query: `WHERE conference_id = \$1 AND session_type <> \$2 AND start_time < \$3 ORDER BY start_time, name`,
			args:  []driver.Value{"conf-1", "WORKSHOP", 1900},
			call: func(r domain.SessionRepository) ([]*domain.Session, error) {
				return r.ListByConferenceExcludingTypeBefore(ctx, "conf-1", domain.SessionTypeWorkshop, 1900)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(tt.query).
				WithArgs(tt.args...).
				WillReturnRows(sqlmock.NewRows(sessionRowColumns).
					AddRow("sess-1", "conf-1", "Keynote", "", "grace@example.com", "Grace", nil, 30, 900, "KEYNOTE", testTime))

			got, err := tt.call(NewSessionRepository(db))
			require.NoError(t, err)
			require.Len(t, got, 1)
			require.Equal(t, "grace@example.com", got[0].Speaker.Email)
			require.Nil(t, got[0].Date)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
