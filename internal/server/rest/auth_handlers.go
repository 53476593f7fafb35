package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/kitchenkeeper/internal/common"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/auth"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/services"
)

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
	User        models.SafeUser `json:"user"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	sess, err := s.sessions.Authenticate(r.Context(), services.Credentials{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "login", "user_id", sess.User.ID)

	s.setSessionCookie(w, sess.Token)
	writeJSON(w, http.StatusOK, loginResponse{AccessToken: sess.Token, ExpiresAt: sess.ExpiresAt, User: sess.User})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		s.writeServiceError(w, r, common.ErrUnauthenticated)
		return
	}
	writeJSON(w, http.StatusOK, map[string]auth.Identity{"user": id})
}

// logout clears the session cookies. Issued tokens stay valid until they
// expire.
func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookies(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.opts.Secure || s.opts.SameSite == http.SameSiteNoneMode,
		SameSite: s.opts.SameSite,
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	if len(s.opts.CookieNames) == 0 {
		return
	}
	http.SetCookie(w, s.cookie(s.opts.CookieNames[0], token, int(s.sessions.TTL().Seconds())))
}

func (s *Server) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range s.opts.CookieNames {
		http.SetCookie(w, s.cookie(name, "", -1))
	}
}
