package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

type speakerRepository struct {
	DB *sql.DB
}

func NewSpeakerRepository(db *sql.DB) domain.SpeakerRepository {
	return &speakerRepository{DB: db}
}

func (r *speakerRepository) GetByEmail(ctx context.Context, email string) (*domain.Speaker, error) {
	query := `SELECT email, name, session_ids FROM speakers WHERE email = $1`
	sp := &domain.Speaker{}
	err := r.DB.QueryRowContext(ctx, query, email).Scan(&sp.Email, &sp.Name, pq.Array(&sp.SessionIDs))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	sp.SessionIDs = nonNil(sp.SessionIDs)
	return sp, nil
}
