package controllers

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/keys"
	"conferencecentral/internal/services"
)

// militaryTimeRegex matches a start time written as 3 or 4 digits (HMM or HHMM).
var militaryTimeRegex = regexp.MustCompile(`^[0-9]{3,4}$`)

// parseDate reads a YYYY-MM-DD date from the first 10 characters of s, so
// RFC 3339 timestamps are accepted too.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.DateOnly)
}

func parseMilitaryTime(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if !militaryTimeRegex.MatchString(s) {
		return nil, fmt.Errorf("invalid start_time %q, expected military time HHMM", s)
	}
	v, _ := strconv.Atoi(s)
	if !services.ValidMilitaryTime(v) {
		return nil, fmt.Errorf("invalid start_time %q, expected military time between 0100 and 2359", s)
	}
	return &v, nil
}

func formatMilitaryTime(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%04d", *v)
}

// ProfileForm is the outbound representation of a profile.
type ProfileForm struct {
	DisplayName            string   `json:"display_name"`
	MainEmail              string   `json:"main_email"`
	TeeShirtSize           string   `json:"tee_shirt_size"`
	ConferenceKeysToAttend []string `json:"conference_keys_to_attend"`
	SessionKeysWishlist    []string `json:"session_keys_wishlist"`
}

func toProfileForm(p *domain.Profile) ProfileForm {
	return ProfileForm{
		DisplayName:            p.DisplayName,
		MainEmail:              p.MainEmail,
		TeeShirtSize:           string(p.TeeShirtSize),
		ConferenceKeysToAttend: keys.EncodeAll(keys.KindConference, p.ConferenceIDsToAttend),
		SessionKeysWishlist:    keys.EncodeAll(keys.KindSession, p.SessionIDsWishlist),
	}
}

// SaveProfileRequest is the request body for POST /profile. Omitted fields are unchanged.
type SaveProfileRequest struct {
	DisplayName  *string `json:"display_name"`
	TeeShirtSize *string `json:"tee_shirt_size"`
}

// Validate implements Validator.
func (req SaveProfileRequest) Validate() []string {
	var errs []string
	if req.DisplayName != nil && strings.TrimSpace(*req.DisplayName) == "" {
		errs = append(errs, "display_name must not be empty")
	}
	if req.TeeShirtSize != nil {
		if _, ok := domain.ParseTeeShirtSize(*req.TeeShirtSize); !ok {
			errs = append(errs, "tee_shirt_size is not a valid size")
		}
	}
	return errs
}

func (req SaveProfileRequest) toUpdate() domain.ProfileUpdate {
	update := domain.ProfileUpdate{DisplayName: req.DisplayName}
	if req.TeeShirtSize != nil {
		size, _ := domain.ParseTeeShirtSize(*req.TeeShirtSize)
		update.TeeShirtSize = &size
	}
	return update
}

// ConferenceForm is the outbound representation of a conference.
type ConferenceForm struct {
	WebsafeKey           string   `json:"websafe_key"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	OrganizerDisplayName string   `json:"organizer_display_name"`
	Topics               []string `json:"topics"`
	City                 string   `json:"city"`
	StartDate            string   `json:"start_date,omitempty"`
	EndDate              string   `json:"end_date,omitempty"`
	Month                int      `json:"month"`
	MaxAttendees         int      `json:"max_attendees"`
	SeatsAvailable       int      `json:"seats_available"`
}

func toConferenceForm(c *domain.Conference, organizerDisplayName string) ConferenceForm {
	return ConferenceForm{
		WebsafeKey:           keys.Conference(c.ID),
		Name:                 c.Name,
		Description:          c.Description,
		OrganizerDisplayName: organizerDisplayName,
		Topics:               c.Topics,
		City:                 c.City,
		StartDate:            formatDate(c.StartDate),
		EndDate:              formatDate(c.EndDate),
		Month:                c.Month,
		MaxAttendees:         c.MaxAttendees,
		SeatsAvailable:       c.SeatsAvailable,
	}
}

func toConferenceForms(conferences []*domain.ConferenceWithOrganizer) []ConferenceForm {
	out := make([]ConferenceForm, 0, len(conferences))
	for _, c := range conferences {
		out = append(out, toConferenceForm(c.Conference, c.OrganizerDisplayName))
	}
	return out
}

// ConferenceRequest is the request body for POST /conference and
// PUT /conference/{websafeConferenceKey}. On update, omitted fields are unchanged.
type ConferenceRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Topics       []string `json:"topics"`
	City         *string  `json:"city"`
	StartDate    *string  `json:"start_date"`
	EndDate      *string  `json:"end_date"`
	MaxAttendees *int     `json:"max_attendees"`
}

// Validate implements Validator. Name presence is checked by the create handler.
func (req ConferenceRequest) Validate() []string {
	var errs []string
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		errs = append(errs, "name must not be empty")
	}
	if req.MaxAttendees != nil && *req.MaxAttendees < 0 {
		errs = append(errs, "max_attendees must not be negative")
	}
	for _, d := range []*string{req.StartDate, req.EndDate} {
		if d == nil || *d == "" {
			continue
		}
		if _, err := parseDate(*d); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func optionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, _ := parseDate(*s)
	return t
}

func (req ConferenceRequest) toConference() *domain.Conference {
	c := &domain.Conference{
		Topics:    req.Topics,
		StartDate: optionalDate(req.StartDate),
		EndDate:   optionalDate(req.EndDate),
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.City != nil {
		c.City = *req.City
	}
	if req.MaxAttendees != nil {
		c.MaxAttendees = *req.MaxAttendees
	}
	return c
}

func (req ConferenceRequest) toUpdate() domain.ConferenceUpdate {
	return domain.ConferenceUpdate{
		Name:         req.Name,
		Description:  req.Description,
		Topics:       req.Topics,
		City:         req.City,
		StartDate:    optionalDate(req.StartDate),
		EndDate:      optionalDate(req.EndDate),
		MaxAttendees: req.MaxAttendees,
	}
}

// ConferenceQueryFilter is one (field, operator, value) triple.
type ConferenceQueryFilter struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// ConferenceQueryRequest is the request body for POST /queryConferences.
type ConferenceQueryRequest struct {
	Filters []ConferenceQueryFilter `json:"filters"`
}

func (req ConferenceQueryRequest) toFilters() []domain.ConferenceFilter {
	out := make([]domain.ConferenceFilter, 0, len(req.Filters))
	for _, f := range req.Filters {
		out = append(out, domain.ConferenceFilter{Field: f.Field, Operator: f.Operator, Value: f.Value})
	}
	return out
}

// SessionForm is the outbound representation of a session.
type SessionForm struct {
	WebsafeKey           string `json:"websafe_key"`
	ConferenceWebsafeKey string `json:"conference_websafe_key"`
	Name                 string `json:"name"`
	Highlights           string `json:"highlights"`
	SpeakerEmail         string `json:"speaker_email,omitempty"`
	SpeakerName          string `json:"speaker_name,omitempty"`
	SpeakerWebsafeKey    string `json:"speaker_websafe_key,omitempty"`
	Duration             int    `json:"duration"`
	TypeOfSession        string `json:"type_of_session"`
	Date                 string `json:"date,omitempty"`
	StartTime            string `json:"start_time,omitempty"`
}

func toSessionForm(s *domain.Session) SessionForm {
	form := SessionForm{
		WebsafeKey:           keys.Session(s.ID),
		ConferenceWebsafeKey: keys.Conference(s.ConferenceID),
		Name:                 s.Name,
		Highlights:           s.Highlights,
		SpeakerEmail:         s.Speaker.Email,
		SpeakerName:          s.Speaker.Name,
		Duration:             s.Duration,
		TypeOfSession:        string(s.SessionType),
		Date:                 formatDate(s.Date),
		StartTime:            formatMilitaryTime(s.StartTime),
	}
	if s.Speaker.Email != "" {
		form.SpeakerWebsafeKey = keys.Speaker(s.Speaker.Email)
	}
	return form
}

func toSessionForms(sessions []*domain.Session) []SessionForm {
	out := make([]SessionForm, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, toSessionForm(s))
	}
	return out
}

// CreateSessionRequest is the request body for POST /conference/{websafeConferenceKey}/sessions.
type CreateSessionRequest struct {
	Name          string `json:"name"`
	Highlights    string `json:"highlights"`
	SpeakerEmail  string `json:"speaker_email"`
	SpeakerName   string `json:"speaker_name"`
	Duration      int    `json:"duration"`
	TypeOfSession string `json:"type_of_session"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
}

// Validate implements Validator.
func (req CreateSessionRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, "name is required")
	}
	if req.Duration < 0 {
		errs = append(errs, "duration must not be negative")
	}
	if req.TypeOfSession != "" {
		if _, ok := domain.ParseSessionType(req.TypeOfSession); !ok {
			errs = append(errs, "type_of_session must be one of NOT_SPECIFIED, LECTURE, KEYNOTE, WORKSHOP")
		}
	}
	if req.Date != "" {
		if _, err := parseDate(req.Date); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if req.StartTime != "" {
		if _, err := parseMilitaryTime(req.StartTime); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if req.SpeakerName != "" && strings.TrimSpace(req.SpeakerEmail) == "" {
		errs = append(errs, "speaker_email is required when speaker_name is set")
	}
	return errs
}

func (req CreateSessionRequest) toSession() *domain.Session {
	s := &domain.Session{
		Name:        req.Name,
		Highlights:  req.Highlights,
		Speaker:     domain.SessionSpeaker{Email: req.SpeakerEmail, Name: req.SpeakerName},
		Duration:    req.Duration,
		SessionType: domain.SessionType(req.TypeOfSession),
	}
	if req.Date != "" {
		s.Date, _ = parseDate(req.Date)
	}
	if req.StartTime != "" {
		s.StartTime, _ = parseMilitaryTime(req.StartTime)
	}
	return s
}

// ProfileSuccessResponse is the success envelope for profile endpoints.
type ProfileSuccessResponse struct {
	Data  ProfileForm       `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ConferenceSuccessResponse is the success envelope for single-conference endpoints.
type ConferenceSuccessResponse struct {
	Data  ConferenceForm    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ConferenceListSuccessResponse is the success envelope for conference listings.
type ConferenceListSuccessResponse struct {
	Data  []ConferenceForm  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SessionSuccessResponse is the success envelope for POST /conference/{websafeConferenceKey}/sessions.
type SessionSuccessResponse struct {
	Data  SessionForm       `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SessionListSuccessResponse is the success envelope for session listings.
type SessionListSuccessResponse struct {
	Data  []SessionForm     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// BoolSuccessResponse is the success envelope for registration endpoints.
type BoolSuccessResponse struct {
	Data  bool              `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// StringSuccessResponse is the success envelope for the cached messages.
type StringSuccessResponse struct {
	Data  string            `json:"data"`
	Error *helpers.APIError `json:"error"`
}
