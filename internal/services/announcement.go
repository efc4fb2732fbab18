package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/keys"
)

// NearlySoldOutSeats is the seat count at or below which a conference is
// announced as nearly sold out.
const NearlySoldOutSeats = 5

const announcementPrefix = "Last chance to attend! The following conferences are nearly sold out: "

type announcementService struct {
	conferenceRepo domain.ConferenceRepository
	sessionRepo    domain.SessionRepository
	cache          domain.KeyValueCache
}

func NewAnnouncementService(conferenceRepo domain.ConferenceRepository, sessionRepo domain.SessionRepository, cache domain.KeyValueCache) domain.AnnouncementService {
	return &announcementService{conferenceRepo: conferenceRepo, sessionRepo: sessionRepo, cache: cache}
}

// RefreshAnnouncement recomputes the nearly-sold-out announcement. The cache
// entry is removed when no conference qualifies.
func (s *announcementService) RefreshAnnouncement(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "AnnouncementService.RefreshAnnouncement")
	defer span.End()

	conferences, err := s.conferenceRepo.ListNearlySoldOut(ctx, NearlySoldOutSeats)
	if err != nil {
		return "", fmt.Errorf("list nearly sold out conferences: %w", err)
	}
	if len(conferences) == 0 {
		s.cache.Delete(ctx, domain.CacheKeyAnnouncement)
		return "", nil
	}
	names := make([]string, 0, len(conferences))
	for _, c := range conferences {
		names = append(names, c.Name)
	}
	announcement := announcementPrefix + strings.Join(names, ", ")
	s.cache.Set(ctx, domain.CacheKeyAnnouncement, announcement)
	return announcement, nil
}

// RefreshFeaturedSpeaker recomputes the featured speaker for the conference
// of the given session. The speaker with the most sessions in that
// conference wins; ties go to the new session's speaker and then to the
// smallest email. Nothing is cached unless the winner has more than one
// session.
func (s *announcementService) RefreshFeaturedSpeaker(ctx context.Context, sessionKey string) (string, error) {
	ctx, span := tracer.Start(ctx, "AnnouncementService.RefreshFeaturedSpeaker")
	defer span.End()

	id, err := decodeEntityKey(sessionKey, keys.KindSession)
	if err != nil {
		return "", err
	}
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", fmt.Errorf("%w: no session found with key: %s", domain.ErrNotFound, sessionKey)
		}
		return "", fmt.Errorf("get session: %w", err)
	}
	sessions, err := s.sessionRepo.ListByConferenceID(ctx, session.ConferenceID)
	if err != nil {
		return "", fmt.Errorf("list sessions: %w", err)
	}

	email, byEmail := featuredSpeaker(session.Speaker.Email, sessions)
	if email == "" {
		return "", nil
	}
	featured := byEmail[email]
	name := email
	names := make([]string, 0, len(featured))
	for _, fs := range featured {
		if name == email && fs.Speaker.Name != "" {
			name = fs.Speaker.Name
		}
		names = append(names, fs.Name)
	}
	value := fmt.Sprintf("Featured speaker: %s. Sessions: %s", name, strings.Join(names, ", "))
	s.cache.Set(ctx, domain.CacheKeyFeaturedSpeaker, value)
	return value, nil
}

// featuredSpeaker returns the winning speaker email, or "" when no speaker
// has more than one session, along with the sessions grouped by speaker.
func featuredSpeaker(preferred string, sessions []*domain.Session) (string, map[string][]*domain.Session) {
	byEmail := make(map[string][]*domain.Session)
	for _, s := range sessions {
		if s.Speaker.Email == "" {
			continue
		}
		byEmail[s.Speaker.Email] = append(byEmail[s.Speaker.Email], s)
	}
	emails := make([]string, 0, len(byEmail))
	for email := range byEmail {
		emails = append(emails, email)
	}
	slices.Sort(emails)

	best, bestCount := "", 0
	for _, email := range emails {
		n := len(byEmail[email])
		if n > bestCount || (n == bestCount && email == preferred) {
			best, bestCount = email, n
		}
	}
	if bestCount <= 1 {
		return "", byEmail
	}
	return best, byEmail
}

func (s *announcementService) GetAnnouncement(ctx context.Context) string {
	v, _ := s.cache.Get(ctx, domain.CacheKeyAnnouncement)
	return v
}

func (s *announcementService) GetFeaturedSpeaker(ctx context.Context) string {
	v, _ := s.cache.Get(ctx, domain.CacheKeyFeaturedSpeaker)
	return v
}
