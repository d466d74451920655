package http

import (
	"net/http"

	"salesdash/internal/session"
)

// sessionID returns the session ID the client sent, or "" when there is none
// or the cookie value is not one the store could have issued.
func (s *Server) sessionID(r *http.Request) string {
	c, err := r.Cookie(s.cookieName)
	if err != nil || !session.ValidID(c.Value) {
		return ""
	}
	return c.Value
}

// setSessionCookie hands the session ID back to the client. It is sent on
// every update so the cookie lifetime follows the idle TTL of the store.
func (s *Server) setSessionCookie(w http.ResponseWriter, r *http.Request, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(s.cookieTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
