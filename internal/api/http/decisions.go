package http

import (
	"context"
	"net/http"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/lifecycle"
)

type decideFunc[T any] func(ctx context.Context, actor lifecycle.Actor, id int32, action lifecycle.Action, p lifecycle.Payload) (T, error)

type listFunc[T any] func(ctx context.Context, filter domain.ListFilter) ([]T, int32, error)

// decision serves POST .../{id}/<action> for any reviewable entity.
func decision[T any](decide decideFunc[T], action lifecycle.Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := ActorFromContext(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		var payload lifecycle.Payload
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, r, err)
			return
		}
		result, err := decide(r.Context(), actor, id, action, payload)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// ownList lists the caller's own rows.
func ownList[T any](list listFunc[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := ActorFromContext(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		filter, err := parseFilter(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		filter.UserID = actor.UserID
		serveList(w, r, list, filter)
	}
}

// adminList lists every row, optionally narrowed with ?user_id=.
func adminList[T any](list listFunc[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if filter.UserID, err = queryInt(r, "user_id"); err != nil {
			writeError(w, r, err)
			return
		}
		serveList(w, r, list, filter)
	}
}

func serveList[T any](w http.ResponseWriter, r *http.Request, list listFunc[T], filter domain.ListFilter) {
	results, count, err := list(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if results == nil {
		results = []T{}
	}
	writeList(w, results, count)
}

type deleteFunc func(ctx context.Context, actor lifecycle.Actor, id int32) error

func deletion(del deleteFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, err := ActorFromContext(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		id, err := pathID(r, "id")
		if err != nil {
			writeError(w, r, err)
			return
		}
		if err := del(r.Context(), actor, id); err != nil {
			writeError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
