package http

import (
	"net/http"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/service"
)

type ContentHandler struct {
	contentSvc service.ContentService
}

func NewContentHandler(contentSvc service.ContentService) *ContentHandler {
	return &ContentHandler{contentSvc: contentSvc}
}

func (h *ContentHandler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.contentSvc.ListAnnouncements(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Announcement{}
	}
	writeList(w, items, int32(len(items)))
}

func (h *ContentHandler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var a domain.Announcement
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.contentSvc.CreateAnnouncement(r.Context(), actor, &a)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ContentHandler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {
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
	var a domain.Announcement
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, r, err)
		return
	}
	a.ID = id
	updated, err := h.contentSvc.UpdateAnnouncement(r.Context(), actor, &a)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ContentHandler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.contentSvc.ListMeetings(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []domain.Meeting{}
	}
	writeList(w, items, int32(len(items)))
}

func (h *ContentHandler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	m, err := h.contentSvc.GetMeeting(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *ContentHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	var m domain.Meeting
	if err := decodeJSON(r, &m); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.contentSvc.CreateMeeting(r.Context(), actor, &m)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ContentHandler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
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
	var m domain.Meeting
	if err := decodeJSON(r, &m); err != nil {
		writeError(w, r, err)
		return
	}
	m.ID = id
	updated, err := h.contentSvc.UpdateMeeting(r.Context(), actor, &m)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *ContentHandler) Register(w http.ResponseWriter, r *http.Request) {
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
	reg, err := h.contentSvc.Register(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}

func (h *ContentHandler) Registrations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	regs, err := h.contentSvc.ListRegistrations(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if regs == nil {
		regs = []domain.MeetingRegistration{}
	}
	writeList(w, regs, int32(len(regs)))
}
