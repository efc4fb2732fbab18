package domain

import (
	"context"
	"slices"
	"strings"
	"time"
)

// SessionType classifies a conference session.
type SessionType string

const (
	SessionTypeNotSpecified SessionType = "NOT_SPECIFIED"
	SessionTypeLecture      SessionType = "LECTURE"
	SessionTypeKeynote      SessionType = "KEYNOTE"
	SessionTypeWorkshop     SessionType = "WORKSHOP"
)

var sessionTypes = []SessionType{SessionTypeNotSpecified, SessionTypeLecture, SessionTypeKeynote, SessionTypeWorkshop}

// ParseSessionType normalizes s (case-insensitive) and reports whether it is a known type.
func ParseSessionType(s string) (SessionType, bool) {
	t := SessionType(strings.ToUpper(strings.TrimSpace(s)))
	return t, slices.Contains(sessionTypes, t)
}

// SessionSpeaker is the speaker reference embedded in a session.
type SessionSpeaker struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Session is a talk within a conference. StartTime is military time (HHMM); nil means unset.
// swagger:model Session
type Session struct {
	ID           string         `json:"id"`
	ConferenceID string         `json:"conference_id"`
	Name         string         `json:"name"`
	Highlights   string         `json:"highlights"`
	Speaker      SessionSpeaker `json:"speaker"`
	Date         *time.Time     `json:"date"`
	Duration     int            `json:"duration"`
	StartTime    *int           `json:"start_time"`
	SessionType  SessionType    `json:"session_type"`
	CreatedAt    time.Time      `json:"created_at"`
}

// SessionRepository defines storage for sessions.
type SessionRepository interface {
	// Create inserts the session and appends it to its speaker's session list in one transaction.
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Session, error)
	ListByConferenceID(ctx context.Context, conferenceID string) ([]*Session, error)
	ListByConferenceAndType(ctx context.Context, conferenceID string, t SessionType) ([]*Session, error)
	ListByConferenceAndDate(ctx context.Context, conferenceID string, date time.Time) ([]*Session, error)
	// ListByConferenceExcludingTypeBefore returns sessions whose type is not excluded and whose start time is set and before beforeTime.
	ListByConferenceExcludingTypeBefore(ctx context.Context, conferenceID string, excluded SessionType, beforeTime int) ([]*Session, error)
}

// SessionService defines session creation and listing.
type SessionService interface {
	CreateSession(ctx context.Context, userID, conferenceKey string, s *Session) (*Session, error)
	ListConferenceSessions(ctx context.Context, conferenceKey string) ([]*Session, error)
	ListConferenceSessionsByType(ctx context.Context, conferenceKey, sessionType string) ([]*Session, error)
	ListSessionsByDate(ctx context.Context, conferenceKey string, date time.Time) ([]*Session, error)
	ListSessionsILike(ctx context.Context, conferenceKey, excludedType string, beforeTime int) ([]*Session, error)
	ListSessionsBySpeaker(ctx context.Context, speakerKey string) ([]*Session, error)
}
