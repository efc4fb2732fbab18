package controllers

import (
	"log/slog"
	"net/http"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/domain"
)

type ProfileController struct {
	Logger  *slog.Logger
	Service domain.ProfileService
}

func NewProfileController(logger *slog.Logger, svc domain.ProfileService) *ProfileController {
	return &ProfileController{Logger: logger, Service: svc}
}

// GetProfile godoc
// @Summary Get the caller's profile
// @Description Returns the caller's profile, creating it on first access.
// @Tags profile
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile [get]
func (c *ProfileController) GetProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	profile, err := c.Service.GetOrCreate(r.Context(), identity)
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toProfileForm(profile))
}

// SaveProfile godoc
// @Summary Update the caller's profile
// @Description Updates display name and/or tee shirt size. Omitted fields are unchanged.
// @Tags profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body SaveProfileRequest true "Writable profile fields"
// @Success 200 {object} controllers.ProfileSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /profile [post]
func (c *ProfileController) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var req SaveProfileRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	identity, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	profile, err := c.Service.Save(r.Context(), identity, req.toUpdate())
	if err != nil {
		helpers.WriteServiceError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, toProfileForm(profile))
}
