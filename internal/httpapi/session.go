package httpapi

import (
	"net/http"
)

// Cookie names of the Spotify session. The token cookies are HTTP-only;
// the user cookie is readable by clients for display.
const (
	cookieAccessToken  = "spotify_access_token"
	cookieRefreshToken = "spotify_refresh_token"
	cookieUser         = "spotify_user"
)

const refreshTokenMaxAge = 60 * 60 * 24 * 30 // 30 days

// Session is the Spotify token state carried by a request. It is read
// once at the handler boundary and passed explicitly into whatever needs
// it, never accessed ambiently.
type Session struct {
	AccessToken  string
	RefreshToken string
}

// Connected reports whether any Spotify session material is present.
func (s Session) Connected() bool {
	return s.AccessToken != "" || s.RefreshToken != ""
}

func sessionFromRequest(r *http.Request) Session {
	var sess Session
	if c, err := r.Cookie(cookieAccessToken); err == nil {
		sess.AccessToken = c.Value
	}
	if c, err := r.Cookie(cookieRefreshToken); err == nil {
		sess.RefreshToken = c.Value
	}
	return sess
}

func (s *Server) setSessionCookie(w http.ResponseWriter, name, value string, maxAge int, httpOnly bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: httpOnly,
		Secure:   s.opts.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter, name string) {
	s.setSessionCookie(w, name, "", -1, true)
}
