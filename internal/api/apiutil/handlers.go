package apiutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/codr1/Matchpoint/internal/api/authz"
	"github.com/codr1/Matchpoint/internal/apperr"
)

// RetryAfterSeconds is advertised on 503 responses caused by lock waits.
const RetryAfterSeconds = 1

type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

type HandlerError struct {
	Status  int
	Message string
	Err     error
}

func (e HandlerError) Error() string {
	return e.Message
}

func (e HandlerError) Unwrap() error {
	return e.Err
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	Field string `json:"field,omitempty"`
}

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return fmt.Errorf("missing request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	if err := encoder.Encode(payload); err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteError maps err onto a JSON error response. Service errors carry
// their kind; anything unclassified is logged and reported as a 500
// without leaking its message.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.Ctx(r.Context())

	var fieldErr FieldError
	if errors.As(err, &fieldErr) {
		writeErrorBody(w, r, http.StatusBadRequest, errorBody{
			Error: fieldErr.Error(),
			Kind:  apperr.KindValidation.String(),
			Field: fieldErr.Field,
		})
		return
	}

	var handlerErr HandlerError
	if errors.As(err, &handlerErr) {
		if handlerErr.Status >= http.StatusInternalServerError {
			logger.Error().Err(handlerErr.Err).Int("status", handlerErr.Status).Msg(handlerErr.Message)
		}
		writeErrorBody(w, r, handlerErr.Status, errorBody{
			Error: handlerErr.Message,
			Kind:  kindForStatus(handlerErr.Status),
		})
		return
	}

	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		writeErrorBody(w, r, http.StatusUnauthorized, errorBody{Error: "authentication required", Kind: apperr.KindUnauthenticated.String()})
		return
	case errors.Is(err, authz.ErrForbidden):
		writeErrorBody(w, r, http.StatusForbidden, errorBody{Error: "forbidden", Kind: apperr.KindForbidden.String()})
		return
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		logger.Error().Err(err).Msg("Unhandled request error")
		writeErrorBody(w, r, http.StatusInternalServerError, errorBody{
			Error: "internal server error",
			Kind:  apperr.KindInternal.String(),
		})
		return
	}

	status := appErr.Kind.HTTPStatus()
	switch appErr.Kind {
	case apperr.KindInternal:
		logger.Error().Err(err).Msg("Request failed")
		writeErrorBody(w, r, status, errorBody{Error: "internal server error", Kind: appErr.Kind.String()})
		return
	case apperr.KindUnavailable:
		logger.Warn().Err(err).Msg("Request rejected: resource busy")
		w.Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
	case apperr.KindConflict:
		logger.Info().Err(err).Msg("Request rejected: conflict")
	default:
		logger.Debug().Err(err).Msg("Request rejected")
	}
	writeErrorBody(w, r, status, errorBody{Error: appErr.Message, Kind: appErr.Kind.String()})
}

func writeErrorBody(w http.ResponseWriter, r *http.Request, status int, body errorBody) {
	if err := WriteJSON(w, status, body); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to write error response")
	}
}

func kindForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return apperr.KindValidation.String()
	case http.StatusUnauthorized:
		return apperr.KindUnauthenticated.String()
	case http.StatusForbidden:
		return apperr.KindForbidden.String()
	case http.StatusNotFound:
		return apperr.KindNotFound.String()
	case http.StatusConflict:
		return apperr.KindConflict.String()
	case http.StatusServiceUnavailable:
		return apperr.KindUnavailable.String()
	case http.StatusTooManyRequests:
		return "rate_limited"
	default:
		return apperr.KindInternal.String()
	}
}

// RequireUser writes a 401 and returns false when the request carries no
// authenticated user.
func RequireUser(w http.ResponseWriter, r *http.Request) (*authz.AuthUser, bool) {
	user, err := authz.RequireUser(r.Context())
	if err != nil {
		log.Ctx(r.Context()).Warn().Str("path", r.URL.Path).Msg("Access denied: unauthenticated")
		WriteError(w, r, err)
		return nil, false
	}
	return user, true
}
