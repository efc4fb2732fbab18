package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/keys"
)

type wishlistService struct {
	profileRepo    domain.ProfileRepository
	sessionRepo    domain.SessionRepository
	contextTimeout time.Duration
}

func NewWishlistService(profileRepo domain.ProfileRepository, sessionRepo domain.SessionRepository, timeout time.Duration) domain.WishlistService {
	return &wishlistService{profileRepo: profileRepo, sessionRepo: sessionRepo, contextTimeout: timeout}
}

// AddSessionToWishlist adds a session of a conference the caller attends to
// the caller's wishlist.
func (s *wishlistService) AddSessionToWishlist(ctx context.Context, identity domain.Identity, sessionKey string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	id, err := decodeEntityKey(sessionKey, keys.KindSession)
	if err != nil {
		return nil, err
	}
	profile, err := loadOrCreateProfile(ctx, s.profileRepo, identity)
	if err != nil {
		return nil, err
	}
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no session found with key: %s", domain.ErrNotFound, sessionKey)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !profile.IsAttending(session.ConferenceID) {
		return nil, fmt.Errorf("%w: you must register for the conference to add its sessions to your wishlist", domain.ErrConflict)
	}
	if profile.HasWishlisted(session.ID) {
		return nil, fmt.Errorf("%w: session is already in your wishlist", domain.ErrConflict)
	}
	added, err := s.profileRepo.AddToWishlist(ctx, profile.ID, session.ID)
	if err != nil {
		return nil, fmt.Errorf("add to wishlist: %w", err)
	}
	if !added {
		return nil, fmt.Errorf("%w: session is already in your wishlist", domain.ErrConflict)
	}
	profile, err = s.profileRepo.GetByID(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func (s *wishlistService) ListSessionsInWishlist(ctx context.Context, identity domain.Identity) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	profile, err := loadOrCreateProfile(ctx, s.profileRepo, identity)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByIDs(ctx, profile.SessionIDsWishlist)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}
