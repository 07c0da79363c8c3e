package web

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/server/models"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login.html", page{Title: "Sign in"})
}

// handleGetAuth opens a fresh session and sends the browser to the
// platform's authorize page carrying the session's OAuth state.
func (s *Server) handleGetAuth(w http.ResponseWriter, r *http.Request) {
	if old := sessionFrom(r); old != nil {
		if err := s.deps.Sessions.Destroy(r.Context(), old.ID); err != nil {
			s.logger.Warn(r.Context(), "previous session not removed", "session_id", old.ID, "error", err)
		}
	}

	sess, err := s.deps.Sessions.Start(r.Context())
	if err != nil {
		s.fail(w, r, "could not start session", err)
		return
	}
	if err := s.setCookie(w, sess); err != nil {
		s.fail(w, r, "could not sign session", err)
		return
	}

	http.Redirect(w, r, s.deps.Platform.AuthorizationURL(sess.OAuthState), http.StatusFound)
}

// handleHome is the OAuth callback. The code is exchanged only while the
// session has no token, so reloading the page after sign-in is harmless.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := sessionFrom(r)
	if sess == nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	if !sess.Authenticated() {
		q := r.URL.Query()
		state := q.Get("state")
		if sess.OAuthState == "" || subtle.ConstantTimeCompare([]byte(state), []byte(sess.OAuthState)) != 1 {
			s.fail(w, r, "sign-in rejected", common.ErrOAuthState)
			return
		}
		code := q.Get("code")
		if code == "" {
			msg := q.Get("error_description")
			if msg == "" {
				msg = "no authorization code returned"
			}
			s.render(w, r, http.StatusUnauthorized, "login.html", page{Title: "Sign in", Flash: msg})
			return
		}

		tok, err := s.tokenStore(sess).Exchange(ctx, code)
		if err != nil {
			s.fail(w, r, "sign-in failed", err)
			return
		}
		sess.Token = tok
		sess.OAuthState = ""

		// the code is spent now; keep the token even if the next call fails
		if err := s.deps.Sessions.Save(ctx, sess); err != nil {
			s.fail(w, r, "could not save session", err)
			return
		}
	}

	if sess.Login == "" {
		me, err := s.api(sess).Me(ctx)
		if err != nil {
			s.fail(w, r, "could not load user", err)
			return
		}
		sess.Login = me.Login
		if err := s.deps.Sessions.Save(ctx, sess); err != nil {
			s.fail(w, r, "could not save session", err)
			return
		}
	}

	s.render(w, r, http.StatusOK, "home.html", page{Title: "Home", Login: sess.Login, Token: sess.Token})
}

// handleRefresh swaps the session token for a fresh pair. On failure the
// session keeps its old token and the browser is sent back to sign in.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	ctx := r.Context()

	tok, err := s.tokenStore(sess).Refresh(ctx)
	if err != nil {
		s.logger.Warn(ctx, "token refresh failed", "session_id", sess.ID, "error", err)
		s.render(w, r, mapError(err), "login.html", page{Title: "Sign in", Flash: "Token refresh failed, please sign in again."})
		return
	}

	sess.Token = tok
	if err := s.deps.Sessions.Save(ctx, sess); err != nil {
		s.fail(w, r, "could not save session", err)
		return
	}
	http.Redirect(w, r, "/user/home", http.StatusFound)
}

// handleLogout revokes the token, forgets the session and clears the cookie.
// A failed revoke is only logged.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if sess := sessionFrom(r); sess != nil {
		if sess.Authenticated() {
			if err := s.tokenStore(sess).Revoke(ctx); err != nil {
				s.logger.Warn(ctx, "revoke on logout failed", "session_id", sess.ID, "error", err)
			}
		}
		if err := s.deps.Sessions.Destroy(ctx, sess.ID); err != nil && !errors.Is(err, common.ErrorNotFound) {
			s.logger.Warn(ctx, "session not removed", "session_id", sess.ID, "error", err)
		}
	}

	s.expireCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
