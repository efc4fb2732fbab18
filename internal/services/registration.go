package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/keys"
)

type registrationService struct {
	store          domain.RegistrationStore
	profileRepo    domain.ProfileRepository
	contextTimeout time.Duration
}

func NewRegistrationService(store domain.RegistrationStore, profileRepo domain.ProfileRepository, timeout time.Duration) domain.RegistrationService {
	return &registrationService{store: store, profileRepo: profileRepo, contextTimeout: timeout}
}

// Register takes one seat of the conference for the caller.
func (s *registrationService) Register(ctx context.Context, identity domain.Identity, conferenceKey string) (bool, error) {
	err := s.update(ctx, "RegistrationService.Register", identity, conferenceKey, register)
	if err != nil {
		return false, err
	}
	return true, nil
}

// Unregister gives the caller's seat back. It reports false without writing
// anything when the caller was not registered.
func (s *registrationService) Unregister(ctx context.Context, identity domain.Identity, conferenceKey string) (bool, error) {
	var released bool
	err := s.update(ctx, "RegistrationService.Unregister", identity, conferenceKey, func(p *domain.Profile, c *domain.Conference) (bool, error) {
		changed, err := unregister(p, c)
		released = changed
		return changed, err
	})
	if err != nil {
		return false, err
	}
	return released, nil
}

func (s *registrationService) update(ctx context.Context, op string, identity domain.Identity, conferenceKey string, fn func(p *domain.Profile, c *domain.Conference) (bool, error)) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, op)
	defer span.End()

	id, err := decodeEntityKey(conferenceKey, keys.KindConference)
	if err != nil {
		return err
	}
	span.SetAttributes(attribute.String("conference.id", id))
	profile, err := loadOrCreateProfile(ctx, s.profileRepo, identity)
	if err != nil {
		return err
	}
	err = s.store.UpdateRegistration(ctx, profile.ID, id, fn)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%w: no conference found with key: %s", domain.ErrNotFound, conferenceKey)
	case errors.Is(err, domain.ErrConflict):
		return err
	}
	return fmt.Errorf("update registration: %w", err)
}

func register(p *domain.Profile, c *domain.Conference) (bool, error) {
	if p.IsAttending(c.ID) {
		return false, fmt.Errorf("%w: you have already registered for this conference", domain.ErrConflict)
	}
	if c.SeatsAvailable <= 0 {
		return false, fmt.Errorf("%w: there are no seats available", domain.ErrConflict)
	}
	p.ConferenceIDsToAttend = append(p.ConferenceIDsToAttend, c.ID)
	c.SeatsAvailable--
	return true, nil
}

func unregister(p *domain.Profile, c *domain.Conference) (bool, error) {
	i := slices.Index(p.ConferenceIDsToAttend, c.ID)
	if i < 0 {
		return false, nil
	}
	p.ConferenceIDsToAttend = slices.Delete(p.ConferenceIDsToAttend, i, i+1)
	c.SeatsAvailable++
	return true, nil
}
