package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// errorBody is the JSON error envelope, matching the frontend's
// expectation of a "detail" field.
type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail})
}

// serverError logs the failure and hides internals from the client.
func (s *Server) serverError(w http.ResponseWriter, op string, err error) {
	s.log.Error(op, slog.Any("err", err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

// decodeJSON reads a request body into v, rejecting unknown top-level
// payloads only by JSON syntax; extra fields are tolerated like the
// original service's schemas.
func decodeJSON(r *http.Request, v any) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

// dateLayout is the wire format of selected_date and the date_from/date_to
// query parameters.
const dateLayout = "2006-01-02"

// parseDate converts an optional YYYY-MM-DD string.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// formatDate renders an optional date for JSON output.
func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
