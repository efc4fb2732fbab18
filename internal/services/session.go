package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"conferencecentral/internal/domain"
	"conferencecentral/internal/keys"
)

const (
	DefaultExcludedSessionType = domain.SessionTypeWorkshop
	DefaultBeforeTime          = 1900
)

type sessionService struct {
	sessionRepo    domain.SessionRepository
	conferenceRepo domain.ConferenceRepository
	speakerRepo    domain.SpeakerRepository
	announcements  domain.AnnouncementService
	dispatcher     domain.TaskDispatcher
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewSessionService(
	sessionRepo domain.SessionRepository,
	conferenceRepo domain.ConferenceRepository,
	speakerRepo domain.SpeakerRepository,
	announcements domain.AnnouncementService,
	dispatcher domain.TaskDispatcher,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SessionService {
	return &sessionService{
		sessionRepo:    sessionRepo,
		conferenceRepo: conferenceRepo,
		speakerRepo:    speakerRepo,
		announcements:  announcements,
		dispatcher:     dispatcher,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// CreateSession adds a session to a conference owned by userID. When the
// session names a speaker, the featured speaker is recomputed in the
// background.
func (s *sessionService) CreateSession(ctx context.Context, userID, conferenceKey string, session *domain.Session) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	ctx, span := tracer.Start(ctx, "SessionService.CreateSession")
	defer span.End()

	session.Name = strings.TrimSpace(session.Name)
	if session.Name == "" {
		return nil, fmt.Errorf("%w: session 'name' field required", domain.ErrInvalidInput)
	}
	if err := normalizeSession(session); err != nil {
		return nil, err
	}
	conference, err := s.getConference(ctx, conferenceKey)
	if err != nil {
		return nil, err
	}
	if conference.OrganizerID != userID {
		return nil, fmt.Errorf("%w: only the owner can add sessions to the conference", domain.ErrForbidden)
	}

	session.ID = uuid.NewString()
	session.ConferenceID = conference.ID
	span.SetAttributes(attribute.String("session.id", session.ID))
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if session.Speaker.Email != "" {
		sessionKey := keys.Session(session.ID)
		queued := s.dispatcher.Enqueue(domain.Task{
			Name: "featured_speaker",
			Run: func(ctx context.Context) error {
				_, err := s.announcements.RefreshFeaturedSpeaker(ctx, sessionKey)
				return err
			},
		})
		if !queued {
			s.logger.WarnContext(ctx, "featured speaker refresh not queued", "session_id", session.ID)
		}
	}
	return session, nil
}

func normalizeSession(session *domain.Session) error {
	if session.SessionType == "" {
		session.SessionType = domain.SessionTypeNotSpecified
	} else {
		t, ok := domain.ParseSessionType(string(session.SessionType))
		if !ok {
			return fmt.Errorf("%w: invalid session type %q", domain.ErrInvalidInput, session.SessionType)
		}
		session.SessionType = t
	}
	if session.StartTime != nil && !ValidMilitaryTime(*session.StartTime) {
		return fmt.Errorf("%w: start_time must be a military time between 0100 and 2359", domain.ErrInvalidInput)
	}
	if session.Duration < 0 {
		return fmt.Errorf("%w: duration must not be negative", domain.ErrInvalidInput)
	}
	session.Speaker.Email = strings.ToLower(strings.TrimSpace(session.Speaker.Email))
	session.Speaker.Name = strings.TrimSpace(session.Speaker.Name)
	return nil
}

// ValidMilitaryTime reports whether hhmm is a time of day written as HMM or
// HHMM: 3 or 4 digits, hours up to 23 and minutes up to 59.
func ValidMilitaryTime(hhmm int) bool {
	if hhmm < 100 || hhmm > 9999 {
		return false
	}
	return hhmm/100 <= 23 && hhmm%100 <= 59
}

func (s *sessionService) ListConferenceSessions(ctx context.Context, conferenceKey string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conference, err := s.getConference(ctx, conferenceKey)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConferenceID(ctx, conference.ID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) ListConferenceSessionsByType(ctx context.Context, conferenceKey, sessionType string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	t, ok := domain.ParseSessionType(sessionType)
	if !ok {
		return nil, fmt.Errorf("%w: invalid session type %q", domain.ErrInvalidInput, sessionType)
	}
	conference, err := s.getConference(ctx, conferenceKey)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConferenceAndType(ctx, conference.ID, t)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) ListSessionsByDate(ctx context.Context, conferenceKey string, date time.Time) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conference, err := s.getConference(ctx, conferenceKey)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConferenceAndDate(ctx, conference.ID, date)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// ListSessionsILike returns the sessions of a conference that are not of
// excludedType and start before beforeTime. Sessions without a start time
// never match.
func (s *sessionService) ListSessionsILike(ctx context.Context, conferenceKey, excludedType string, beforeTime int) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	excluded := DefaultExcludedSessionType
	if excludedType != "" {
		t, ok := domain.ParseSessionType(excludedType)
		if !ok {
			return nil, fmt.Errorf("%w: invalid session type %q", domain.ErrInvalidInput, excludedType)
		}
		excluded = t
	}
	if !ValidMilitaryTime(beforeTime) {
		return nil, fmt.Errorf("%w: before must be a military time between 0100 and 2359", domain.ErrInvalidInput)
	}
	conference, err := s.getConference(ctx, conferenceKey)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConferenceExcludingTypeBefore(ctx, conference.ID, excluded, beforeTime)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) ListSessionsBySpeaker(ctx context.Context, speakerKey string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email, err := decodeEntityKey(speakerKey, keys.KindSpeaker)
	if err != nil {
		return nil, err
	}
	speaker, err := s.speakerRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no speaker found with key: %s", domain.ErrNotFound, speakerKey)
		}
		return nil, fmt.Errorf("get speaker: %w", err)
	}
	sessions, err := s.sessionRepo.ListByIDs(ctx, speaker.SessionIDs)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) getConference(ctx context.Context, conferenceKey string) (*domain.Conference, error) {
	id, err := decodeEntityKey(conferenceKey, keys.KindConference)
	if err != nil {
		return nil, err
	}
	c, err := s.conferenceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no conference found with key: %s", domain.ErrNotFound, conferenceKey)
		}
		return nil, fmt.Errorf("get conference: %w", err)
	}
	return c, nil
}
