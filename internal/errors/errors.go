package errors

import (
	"encoding/json"
	"errors"
	"net/http"
)

var (
	ErrMissingBaseURL = errors.New("missing base URL")
	ErrMissingModel   = errors.New("missing model")
	ErrMissingPrompt  = errors.New("missing user message")
	ErrUnhealthy      = errors.New("health endpoint returned non-2xx response")
	ErrMalformedFrame = errors.New("malformed console frame")
)

type jsonError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	body := jsonError{
		Error:   http.StatusText(statusCode),
		Message: message,
	}
	_ = json.NewEncoder(w).Encode(body)
}
