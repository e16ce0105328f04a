package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/gate"
	"pamoja-backend/internal/logger"

	"github.com/gorilla/mux"
)

type errorResponse struct {
	Error  string      `json:"error"`
	Kind   string      `json:"kind"`
	Reason gate.Reason `json:"reason,omitempty"`
}

type listResponse struct {
	Results any   `json:"results"`
	Count   int32 `json:"count"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}

func writeList(w http.ResponseWriter, results any, count int32) {
	writeJSON(w, http.StatusOK, listResponse{Results: results, Count: count})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindForbidden, domain.KindActivationRequired:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindInvalidTransition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	kind := domain.KindOf(err)
	msg := domain.Message(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Kind: kind})
}

func writeGateError(w http.ResponseWriter, d gate.Decision) {
	writeJSON(w, http.StatusForbidden, errorResponse{
		Error:  domain.Message(d.Err()),
		Kind:   domain.KindActivationRequired,
		Reason: d.Reason,
	})
}

// decodeJSON reads an optional JSON body into v.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return domain.Validationf("invalid request body: %v", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.Validationf("invalid %s: %q", name, raw)
	}
	return int32(id), nil
}

func queryInt(r *http.Request, name string) (int32, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return 0, domain.Validationf("invalid %s: %q", name, raw)
	}
	return int32(v), nil
}

// parseFilter reads status, from, to (YYYY-MM-DD), limit and offset. A to date includes the whole day.
func parseFilter(r *http.Request) (domain.ListFilter, error) {
	q := r.URL.Query()
	f := domain.ListFilter{Status: q.Get("status")}

	var err error
	if f.Limit, err = queryInt(r, "limit"); err != nil {
		return f, err
	}
	if f.Offset, err = queryInt(r, "offset"); err != nil {
		return f, err
	}
	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return f, domain.Validationf("invalid from date %q, expected YYYY-MM-DD", raw)
		}
		f.From = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			return f, domain.Validationf("invalid to date %q, expected YYYY-MM-DD", raw)
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return f, domain.Validationf("from must not be after to")
	}
	return f, nil
}
