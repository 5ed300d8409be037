package web

import (
	"net/http"
	"time"

	"github.com/openclaw/authgate/clientstate"
)

// stateCookie is the single cookie the service sets. It holds a signed
// clientstate token; the store-backed session record remains authoritative.
const stateCookie = "authgate_state"

func (h *Handler) readState(r *http.Request) *clientstate.State {
	cookie, err := r.Cookie(stateCookie)
	if err != nil {
		return nil
	}
	state, err := h.states.Parse(cookie.Value)
	if err != nil {
		return nil
	}
	return state
}

func (h *Handler) setState(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearState(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
