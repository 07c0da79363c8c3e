package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/server/models"
	"github.com/dmitrijs2005/fieldcheck/internal/server/tokens"
)

type ctxKey struct{}

func sessionFrom(r *http.Request) *models.Session {
	sess, _ := r.Context().Value(ctxKey{}).(*models.Session)
	return sess
}

// withSession attaches the caller's session, if the cookie names a live one.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(common.SessionCookieName)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := s.deps.Sessions.FromCookie(r.Context(), c.Value)
		if err != nil {
			if !errors.Is(err, common.ErrorNotFound) && !errors.Is(err, common.ErrInvalidToken) && !errors.Is(err, common.ErrTokenExpired) {
				s.logger.Warn(r.Context(), "session load failed", "error", err)
			}
			s.expireCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sess)))
	})
}

func (s *Server) setCookie(w http.ResponseWriter, sess *models.Session) error {
	value, err := s.deps.Sessions.CookieValue(sess)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.deps.SecureCookies,
		// Lax so the cookie survives the top-level redirect back from the OAuth server.
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(sess.ExpiresAt.Sub(s.now()).Seconds()),
		Expires:  sess.ExpiresAt,
	})
	return nil
}

func (s *Server) expireCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.deps.SecureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}

func (s *Server) tokenStore(sess *models.Session) *tokens.Store {
	return tokens.NewStore(s.deps.Platform, s.logger, sess.Token)
}

func (s *Server) api(sess *models.Session) UserAPI {
	return s.deps.NewAPI(sess.Token.AccessToken)
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *models.Session)

func (s *Server) requireSession(next sessionHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		if sess == nil {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next(w, r, sess)
	}
}

func (s *Server) requireAuth(next sessionHandler) http.HandlerFunc {
	return s.requireSession(func(w http.ResponseWriter, r *http.Request, sess *models.Session) {
		if !sess.Authenticated() {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		next(w, r, sess)
	})
}

func (s *Server) requireProject(next sessionHandler) http.HandlerFunc {
	return s.requireAuth(func(w http.ResponseWriter, r *http.Request, sess *models.Session) {
		if sess.ProjectID == 0 {
			http.Redirect(w, r, "/user/projects", http.StatusFound)
			return
		}
		next(w, r, sess)
	})
}

func (s *Server) requireLists(next sessionHandler) http.HandlerFunc {
	return s.requireProject(func(w http.ResponseWriter, r *http.Request, sess *models.Session) {
		if len(sess.ListIDs) == 0 {
			http.Redirect(w, r, "/selectIns", http.StatusFound)
			return
		}
		next(w, r, sess)
	})
}
