package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

type ConferenceController struct {
	Logger       *slog.Logger
	Service      domain.ConferenceService
	Registration domain.RegistrationService
}

func NewConferenceController(logger *slog.Logger, svc domain.ConferenceService, registration domain.RegistrationService) *ConferenceController {
	return &ConferenceController{Logger: logger, Service: svc, Registration: registration}
}

// CreateConference godoc
// @Summary Create a conference
// @Description Creates a conference owned by the caller. Missing city and topics get defaults; seats_available starts at max_attendees. A confirmation email is sent in the background.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conference body ConferenceRequest true "Conference data"
// @Success 201 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference [post]
func (c *ConferenceController) CreateConference(w http.ResponseWriter, r *http.Request) {
	var req ConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	if req.Name == nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "name is required")
		return
	}
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	conference, err := c.Service.CreateConference(r.Context(), identity, req.toConference())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, toConferenceForm(conference, ""))
}

// UpdateConference godoc
// @Summary Update a conference
// @Description Updates the given fields of a conference. Only the organizer may update it. Changing max_attendees shifts seats_available by the same amount.
// @Tags conferences
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param websafeConferenceKey path string true "Conference key"
// @Param conference body ConferenceRequest true "Fields to change"
// @Success 200 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference/{websafeConferenceKey} [put]
func (c *ConferenceController) UpdateConference(w http.ResponseWriter, r *http.Request) {
	var req ConferenceRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	updated, err := c.Service.UpdateConference(r.Context(), identity.UserID, r.PathValue("websafeConferenceKey"), req.toUpdate())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toConferenceForm(updated.Conference, updated.OrganizerDisplayName))
}

// GetConference godoc
// @Summary Get a conference
// @Tags conferences
// @Produce json
// @Param websafeConferenceKey path string true "Conference key"
// @Success 200 {object} controllers.ConferenceSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference/{websafeConferenceKey} [get]
func (c *ConferenceController) GetConference(w http.ResponseWriter, r *http.Request) {
	conference, err := c.Service.GetConference(r.Context(), r.PathValue("websafeConferenceKey"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toConferenceForm(conference.Conference, conference.OrganizerDisplayName))
}

// QueryConferences godoc
// @Summary Query conferences
// @Description Filters conferences on city, topic, month and maxAttendees. Inequality operators may be used on one field only. Results are ordered by the inequality field, then by name. All matches are returned unless page or page_size is given.
// @Tags conferences
// @Accept json
// @Produce json
// @Param query body ConferenceQueryRequest false "Filters"
// @Param page query int false "Page number (default 1 when page_size is given)"
// @Param page_size query int false "Page size (default 20, max 100). Without page and page_size every match is returned."
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /queryConferences [post]
func (c *ConferenceController) QueryConferences(w http.ResponseWriter, r *http.Request) {
	var req ConferenceQueryRequest
	if !helpers.DecodeOptionalAndValidate(w, r, &req) {
		return
	}
	conferences, err := c.Service.QueryConferences(r.Context(), req.toFilters(), helpers.ParseOptionalPagination(r))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toConferenceForms(conferences))
}

// ListConferencesCreated godoc
// @Summary List conferences created by the caller
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/created [get]
func (c *ConferenceController) ListConferencesCreated(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	conferences, err := c.Service.ListConferencesCreated(r.Context(), identity)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toConferenceForms(conferences))
}

// ListConferencesToAttend godoc
// @Summary List conferences the caller is registered for
// @Tags conferences
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ConferenceListSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conferences/attending [get]
func (c *ConferenceController) ListConferencesToAttend(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	conferences, err := c.Service.ListConferencesToAttend(r.Context(), identity)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toConferenceForms(conferences))
}

// Register godoc
// @Summary Register for a conference
// @Description Takes one seat for the caller.
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Param websafeConferenceKey path string true "Conference key"
// @Success 200 {object} controllers.BoolSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already registered or sold out)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference/{websafeConferenceKey}/registration [post]
func (c *ConferenceController) Register(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	registered, err := c.Registration.Register(r.Context(), identity, r.PathValue("websafeConferenceKey"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, registered)
}

// Unregister godoc
// @Summary Unregister from a conference
// @Description Gives the caller's seat back. Returns false when the caller was not registered.
// @Tags registration
// @Produce json
// @Security BearerAuth
// @Param websafeConferenceKey path string true "Conference key"
// @Success 200 {object} controllers.BoolSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /conference/{websafeConferenceKey}/registration [delete]
func (c *ConferenceController) Unregister(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	released, err := c.Registration.Unregister(r.Context(), identity, r.PathValue("websafeConferenceKey"))
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, released)
}
