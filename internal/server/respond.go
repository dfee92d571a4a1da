package server

import (
	"encoding/json"
	"errors"
	"net/http"

	kgerrors "github.com/matzehuels/kgview/pkg/errors"
	"github.com/matzehuels/kgview/pkg/session"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code    kgerrors.Code `json:"code"`
	Message string        `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := kgerrors.GetCode(err)
	if errors.Is(err, session.ErrNotFound) {
		code = kgerrors.ErrCodeSessionNotFound
	}
	if code == "" {
		code = kgerrors.ErrCodeInternal
	}
	if code == kgerrors.ErrCodeNotLoaded {
		s.writeLoading(w)
		return
	}
	status := statusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "code", code, "err", err)
	}
	s.writeJSON(w, status, errorResponse{Code: code, Message: kgerrors.UserMessage(err)})
}

func statusFor(code kgerrors.Code) int {
	switch code {
	case kgerrors.ErrCodeInvalidInput, kgerrors.ErrCodeMalformedSelection, kgerrors.ErrCodeMalformedPayload:
		return http.StatusBadRequest
	case kgerrors.ErrCodeNotFound, kgerrors.ErrCodeSessionNotFound, kgerrors.ErrCodeSearchNotFound:
		return http.StatusNotFound
	case kgerrors.ErrCodeNotLoaded:
		return http.StatusServiceUnavailable
	case kgerrors.ErrCodeAlreadyLoaded:
		return http.StatusConflict
	case kgerrors.ErrCodeTransport:
		return http.StatusBadGateway
	case kgerrors.ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// writeLoading answers a graph request made before the dataset arrived.
func (s *Server) writeLoading(w http.ResponseWriter) {
	w.Header().Set("Retry-After", "1")
	s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
}

// decodeBody reads a JSON request body into v.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return kgerrors.Wrap(kgerrors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}
