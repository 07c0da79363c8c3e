package web

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/server/checklists"
)

func mapError(err error) int {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrOAuthState),
		errors.Is(err, common.ErrMalformedReference),
		errors.Is(err, common.ErrReferenceOutOfRange),
		errors.Is(err, checklists.ErrNoLists):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrAuthExchange),
		errors.Is(err, common.ErrAuthRefresh),
		errors.Is(err, common.ErrUpstreamHTTP):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and renders the error page with the mapped status.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	code := mapError(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), msg, "path", r.URL.Path, "error", err)
	} else {
		s.logger.Warn(r.Context(), msg, "path", r.URL.Path, "error", err)
	}

	text := msg
	if code != http.StatusInternalServerError {
		text = msg + ": " + err.Error()
	}
	s.render(w, r, code, "error.html", page{Title: http.StatusText(code), Error: text, Status: code})
}
