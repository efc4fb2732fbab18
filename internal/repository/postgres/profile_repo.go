package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"conferencecentral/internal/domain"
)

const profileColumns = `id, display_name, main_email, tee_shirt_size, conference_ids_to_attend, session_ids_wishlist`

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{DB: db}
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, display_name, main_email, tee_shirt_size, conference_ids_to_attend, session_ids_wishlist)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query,
		p.ID, p.DisplayName, p.MainEmail, string(p.TeeShirtSize),
		pq.Array(nonNil(p.ConferenceIDsToAttend)), pq.Array(nonNil(p.SessionIDsWishlist)),
	)
	return err
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`
	p, err := scanProfile(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $2, tee_shirt_size = $3, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, p.ID, p.DisplayName, string(p.TeeShirtSize))
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *profileRepository) AddToWishlist(ctx context.Context, profileID, sessionID string) (bool, error) {
	query := `
		UPDATE profiles
		SET session_ids_wishlist = array_append(session_ids_wishlist, $2::text), updated_at = NOW()
		WHERE id = $1 AND NOT ($2::text = ANY(session_ids_wishlist))
	`
	result, err := r.DB.ExecContext(ctx, query, profileID, sessionID)
	if err != nil {
		return false, err
	}
	rows, _ := result.RowsAffected()
	if rows > 0 {
		return true, nil
	}
	var exists bool
	if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM profiles WHERE id = $1)`, profileID).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, domain.ErrNotFound
	}
	return false, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*domain.Profile, error) {
	p := &domain.Profile{}
	var size string
	if err := row.Scan(&p.ID, &p.DisplayName, &p.MainEmail, &size,
		pq.Array(&p.ConferenceIDsToAttend), pq.Array(&p.SessionIDsWishlist)); err != nil {
		return nil, err
	}
	p.TeeShirtSize = domain.TeeShirtSize(size)
	p.ConferenceIDsToAttend = nonNil(p.ConferenceIDsToAttend)
	p.SessionIDsWishlist = nonNil(p.SessionIDsWishlist)
	return p, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
