package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/smith3v/lingochat/pkg/auth"
	"github.com/smith3v/lingochat/pkg/db"
	"github.com/smith3v/lingochat/pkg/logger"
	"github.com/smith3v/lingochat/pkg/translation"
	"github.com/smith3v/lingochat/pkg/tutor"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// fail maps a service error onto its status code and fixed message.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tutor.ErrEmptyUtterance),
		errors.Is(err, tutor.ErrUtteranceTooLong),
		errors.Is(err, tutor.ErrNoSentenceToCorrect),
		errors.Is(err, tutor.ErrGuidanceUnavailable),
		errors.Is(err, translation.ErrMissingFields),
		errors.Is(err, translation.ErrUnsupportedLanguage),
		errors.Is(err, auth.ErrMissingFields),
		errors.Is(err, auth.ErrReservedUsername),
		errors.Is(err, errConversationFields),
		errors.Is(err, errUnsupportedLanguage):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, "Conversation not found")
	case errors.Is(err, db.ErrUsernameTaken), errors.Is(err, db.ErrConversationNameTaken):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", `Basic realm="Login required!"`)
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "Token is invalid or expired")
	case errors.Is(err, tutor.ErrChatGateway):
		writeError(w, http.StatusInternalServerError, tutor.ErrChatGateway.Error())
	case errors.Is(err, translation.ErrGateway):
		writeError(w, http.StatusInternalServerError, translation.ErrGateway.Error())
	case errors.Is(err, translation.ErrDictionaryStore):
		writeError(w, http.StatusInternalServerError, translation.ErrDictionaryStore.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
