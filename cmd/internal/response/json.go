// Package response implements the uniform JSON envelope every endpoint
// returns: a status tag, a human-readable message, and a data payload.
package response

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// Status tags carried in the envelope.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// Envelope is the wire shape of every response body.
type Envelope struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func write(w http.ResponseWriter, code int, env Envelope) {
	if env.Data == nil {
		env.Data = map[string]any{}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(env)
}

// Success writes a success envelope.
func Success(w http.ResponseWriter, code int, message string, data map[string]any) {
	write(w, code, Envelope{Status: StatusSuccess, Message: message, Data: data})
}

// Fail writes a failure envelope with the error detail in data.
func Fail(w http.ResponseWriter, code int, message, detail string) {
	write(w, code, Envelope{
		Status:  StatusFail,
		Message: message,
		Data:    map[string]any{"error": detail},
	})
}

// DecodeJSON decodes a single JSON value from the request body, bounding
// its size and rejecting unknown fields and trailing data.
func DecodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) error {
	if r.Body == nil {
		return errors.New("empty body")
	}
	defer func() { _ = r.Body.Close() }()

	body := http.MaxBytesReader(w, r.Body, maxBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("extra data after JSON object")
	}
	return nil
}
