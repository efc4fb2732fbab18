package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/keys"
)

var tracer = otel.Tracer("conferencecentral/internal/services")

// decodeEntityKey resolves a websafe key of the given kind to a row id.
// Malformed keys and keys of another kind are invalid input; keys whose id
// cannot name a row are reported as not found.
func decodeEntityKey(websafe string, kind keys.Kind) (string, error) {
	id, err := keys.DecodeKind(websafe, kind)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if kind == keys.KindConference || kind == keys.KindSession {
		if _, err := uuid.Parse(id); err != nil {
			return "", fmt.Errorf("%w: no %s found with key: %s", domain.ErrNotFound, kind, websafe)
		}
	}
	return id, nil
}

func requireIdentity(identity domain.Identity) error {
	if identity.UserID == "" {
		return fmt.Errorf("%w: authorization required", domain.ErrUnauthorized)
	}
	return nil
}

// loadOrCreateProfile returns the caller's profile, creating it on first use.
func loadOrCreateProfile(ctx context.Context, repo domain.ProfileRepository, identity domain.Identity) (*domain.Profile, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	p, err := repo.GetByID(ctx, identity.UserID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if err := repo.Create(ctx, domain.NewProfile(identity)); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	// Create ignores an existing row, so read back whichever insert won.
	p, err = repo.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// organizerNames looks up display names for the distinct organizers of the
// given conferences. Missing profiles map to an empty name.
func organizerNames(ctx context.Context, repo domain.ProfileRepository, conferences []*domain.Conference) (map[string]string, error) {
	names := make(map[string]string)
	for _, c := range conferences {
		if _, ok := names[c.OrganizerID]; ok {
			continue
		}
		p, err := repo.GetByID(ctx, c.OrganizerID)
		switch {
		case err == nil:
			names[c.OrganizerID] = p.DisplayName
		case errors.Is(err, domain.ErrNotFound):
			names[c.OrganizerID] = ""
		default:
			return nil, fmt.Errorf("get organizer: %w", err)
		}
	}
	return names, nil
}

func withOrganizers(ctx context.Context, repo domain.ProfileRepository, conferences []*domain.Conference) ([]*domain.ConferenceWithOrganizer, error) {
	names, err := organizerNames(ctx, repo, conferences)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.ConferenceWithOrganizer, 0, len(conferences))
	for _, c := range conferences {
		out = append(out, &domain.ConferenceWithOrganizer{Conference: c, OrganizerDisplayName: names[c.OrganizerID]})
	}
	return out, nil
}
