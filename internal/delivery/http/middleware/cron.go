package middleware

import (
	"crypto/subtle"
	"net/http"

	h "conferencecentral/internal/delivery/http/helpers"
)

// CronTokenHeader carries the shared secret of the external scheduler.
const CronTokenHeader = "X-Cron-Token"

// RequireCronToken only lets requests through whose X-Cron-Token header
// matches token. An empty token disables the endpoint.
func RequireCronToken(token string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(CronTokenHeader)
			if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "cron token required")
				return
			}
			next(w, r)
		}
	}
}
