package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/services"
)

type SessionController struct {
	Logger  *slog.Logger
	Service domain.SessionService
}

func NewSessionController(logger *slog.Logger, svc domain.SessionService) *SessionController {
	return &SessionController{Logger: logger, Service: svc}
}

// CreateSession godoc
// @Summary Create a session
// @Description Creates a session in a conference owned by the caller. Date is YYYY-MM-DD and start_time is military time (HHMM). A featured speaker recompute is queued in the background.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param websafeConferenceKey path string true "Conference key"
// @Param session body CreateSessionRequest true "Session data"
// @Success 201 {object} controllers.SessionSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference/{websafeConferenceKey}/sessions [post]
func (c *SessionController) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	session, err := c.Service.CreateSession(r.Context(), identity.UserID, r.PathValue("websafeConferenceKey"), req.toSession())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, toSessionForm(session))
}

// ListConferenceSessions godoc
// @Summary List sessions of a conference
// @Tags sessions
// @Produce json
// @Param websafeConferenceKey path string true "Conference key"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference/{websafeConferenceKey}/sessions [get]
func (c *SessionController) ListConferenceSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := c.Service.ListConferenceSessions(r.Context(), r.PathValue("websafeConferenceKey"))
	c.writeSessions(w, r, sessions, err)
}

// ListConferenceSessionsByType godoc
// @Summary List sessions of a conference by type
// @Tags sessions
// @Produce json
// @Param websafeConferenceKey path string true "Conference key"
// @Param typeOfSession path string true "NOT_SPECIFIED, LECTURE, KEYNOTE or WORKSHOP"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference/{websafeConferenceKey}/sessions/type/{typeOfSession} [get]
func (c *SessionController) ListConferenceSessionsByType(w http.ResponseWriter, r *http.Request) {
	sessions, err := c.Service.ListConferenceSessionsByType(r.Context(), r.PathValue("websafeConferenceKey"), r.PathValue("typeOfSession"))
	c.writeSessions(w, r, sessions, err)
}

// ListSessionsByDate godoc
// @Summary List sessions of a conference on a date
// @Tags sessions
// @Produce json
// @Param websafeConferenceKey path string true "Conference key"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference/{websafeConferenceKey}/sessions/date/{date} [get]
func (c *SessionController) ListSessionsByDate(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r.PathValue("date"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	sessions, err := c.Service.ListSessionsByDate(r.Context(), r.PathValue("websafeConferenceKey"), *date)
	c.writeSessions(w, r, sessions, err)
}

// ListSessionsILike godoc
// @Summary List preferred sessions
// @Description Sessions whose type is not exclude_type and that start before the given military time. Sessions without a start time are left out.
// @Tags sessions
// @Produce json
// @Param websafeConferenceKey path string true "Conference key"
// @Param exclude_type query string false "Session type to leave out (default WORKSHOP)"
// @Param before query string false "Military time upper bound, exclusive (default 1900)"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference/{websafeConferenceKey}/sessions/preferred [get]
func (c *SessionController) ListSessionsILike(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	excluded := q.Get("exclude_type")
	if excluded == "" {
		excluded = string(services.DefaultExcludedSessionType)
	}
	before := services.DefaultBeforeTime
	if raw := q.Get("before"); raw != "" {
		parsed, err := parseMilitaryTime(raw)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		before = *parsed
	}
	sessions, err := c.Service.ListSessionsILike(r.Context(), r.PathValue("websafeConferenceKey"), excluded, before)
	c.writeSessions(w, r, sessions, err)
}

// ListSessionsBySpeaker godoc
// @Summary List sessions given by a speaker
// @Tags sessions
// @Produce json
// @Param websafeSpeakerKey path string true "Speaker key"
// @Success 200 {object} controllers.SessionListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /speaker/{websafeSpeakerKey}/sessions [get]
func (c *SessionController) ListSessionsBySpeaker(w http.ResponseWriter, r *http.Request) {
	sessions, err := c.Service.ListSessionsBySpeaker(r.Context(), r.PathValue("websafeSpeakerKey"))
	c.writeSessions(w, r, sessions, err)
}

func (c *SessionController) writeSessions(w http.ResponseWriter, r *http.Request, sessions []*domain.Session, err error) {
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toSessionForms(sessions))
}
