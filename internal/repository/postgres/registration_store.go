package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

type registrationStore struct {
	DB *sql.DB
}

// NewRegistrationStore returns a store that updates a profile's attendance
// and a conference's seat count in one transaction. Rows are locked profile
// first, then conference.
func NewRegistrationStore(db *sql.DB) domain.RegistrationStore {
	return &registrationStore{DB: db}
}

func (s *registrationStore) UpdateRegistration(ctx context.Context, profileID, conferenceID string, fn func(p *domain.Profile, c *domain.Conference) (bool, error)) error {
	err := withTx(ctx, s.DB, func(tx *sql.Tx) error {
		p, err := scanProfile(tx.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1 FOR UPDATE`, profileID))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
		c, err := scanConference(tx.QueryRowContext(ctx, `SELECT `+conferenceColumns+` FROM conferences WHERE id = $1 FOR UPDATE`, conferenceID))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return err
		}
		changed, err := fn(p, c)
		if err != nil || !changed {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE profiles SET conference_ids_to_attend = $2, updated_at = NOW() WHERE id = $1`,
			p.ID, pq.Array(nonNil(p.ConferenceIDsToAttend)),
		); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE conferences SET seats_available = $2, updated_at = NOW() WHERE id = $1`,
			c.ID, c.SeatsAvailable,
		)
		return err
	})
	return mapConstraintError(err)
}
