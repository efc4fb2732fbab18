package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const sessionColumns = `id, conference_id, name, highlights, speaker_email, speaker_name, date, duration, start_time, session_type, created_at`

type sessionRepository struct {
	DB *sql.DB
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &sessionRepository{DB: db}
}

// Create inserts the session and, when it has a speaker, upserts the speaker
// row and appends the session id to it in the same transaction.
func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	err := withTx(ctx, r.DB, func(tx *sql.Tx) error {
		var speakerEmail sql.NullString
		if s.Speaker.Email != "" {
			speakerEmail = sql.NullString{String: s.Speaker.Email, Valid: true}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO speakers (email, name, session_ids)
				VALUES ($1, $2, ARRAY[$3::text])
				ON CONFLICT (email) DO UPDATE
				SET name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE speakers.name END,
					session_ids = array_append(speakers.session_ids, $3::text)
			`, s.Speaker.Email, s.Speaker.Name, s.ID); err != nil {
				return err
			}
		}
		query := `
			INSERT INTO sessions (id, conference_id, name, highlights, speaker_email, speaker_name, date, duration, start_time, session_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING created_at
		`
		return tx.QueryRowContext(ctx, query,
			s.ID, s.ConferenceID, s.Name, s.Highlights, speakerEmail, s.Speaker.Name,
			nullTime(s.Date), s.Duration, nullInt(s.StartTime), string(s.SessionType),
		).Scan(&s.CreatedAt)
	})
	return mapConstraintError(err)
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`
	s, err := scanSession(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sessionRepository) ListByIDs(ctx context.Context, ids []string) ([]*domain.Session, error) {
	if len(ids) == 0 {
		return []*domain.Session{}, nil
	}
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ANY($1) ORDER BY date NULLS LAST, start_time NULLS LAST, name`
	return r.list(ctx, query, pq.Array(ids))
}

func (r *sessionRepository) ListByConferenceID(ctx context.Context, conferenceID string) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE conference_id = $1 ORDER BY date NULLS LAST, start_time NULLS LAST, name`
	return r.list(ctx, query, conferenceID)
}

func (r *sessionRepository) ListByConferenceAndType(ctx context.Context, conferenceID string, t domain.SessionType) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE conference_id = $1 AND session_type = $2 ORDER BY date NULLS LAST, start_time NULLS LAST, name`
	return r.list(ctx, query, conferenceID, string(t))
}

func (r *sessionRepository) ListByConferenceAndDate(ctx context.Context, conferenceID string, date time.Time) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE conference_id = $1 AND date = $2 ORDER BY start_time NULLS LAST, name`
	return r.list(ctx, query, conferenceID, date.Format(time.DateOnly))
}

func (r *sessionRepository) ListByConferenceExcludingTypeBefore(ctx context.Context, conferenceID string, excluded domain.SessionType, beforeTime int) ([]*domain.Session, error) {
	query, args, err := psql.Select(sessionColumns).
		From("sessions").
		Where(sq.Eq{"conference_id": conferenceID}).
		Where(sq.NotEq{"session_type": string(excluded)}).
		Where(sq.Lt{"start_time": beforeTime}).
		OrderBy("start_time", "name").
		ToSql()
	if err != nil {
		return nil, err
	}
	return r.list(ctx, query, args...)
}

func (r *sessionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Session, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*domain.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSession(row rowScanner) (*domain.Session, error) {
	s := &domain.Session{}
	var email sql.NullString
	var date sql.NullTime
	var start sql.NullInt64
	var sessionType string
	if err := row.Scan(&s.ID, &s.ConferenceID, &s.Name, &s.Highlights, &email, &s.Speaker.Name,
		&date, &s.Duration, &start, &sessionType, &s.CreatedAt); err != nil {
		return nil, err
	}
	s.Speaker.Email = email.String
	if date.Valid {
		s.Date = &date.Time
	}
	if start.Valid {
		v := int(start.Int64)
		s.StartTime = &v
	}
	s.SessionType = domain.SessionType(sessionType)
	return s, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}
