package http

import (
	"net/http"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/service"

	"github.com/gorilla/mux"
)

type ApplicationHandler struct {
	appSvc    service.ApplicationService
	maxUpload int64
}

func NewApplicationHandler(appSvc service.ApplicationService, maxUpload int64) *ApplicationHandler {
	return &ApplicationHandler{appSvc: appSvc, maxUpload: maxUpload}
}

// applicationFromForm reads the application fields shared by submit, upgrade and update.
func applicationFromForm(r *http.Request) (*domain.Application, error) {
	dob, err := formDate(r, "date_of_birth")
	if err != nil {
		return nil, err
	}
	return &domain.Application{
		MembershipType:        domain.MembershipType(formString(r, "membership_type")),
		FirstName:             formString(r, "first_name"),
		LastName:              formString(r, "last_name"),
		Email:                 formString(r, "email"),
		Phone:                 formString(r, "phone"),
		DateOfBirth:           dob,
		IDNumber:              formString(r, "id_number"),
		Address:               formString(r, "address"),
		City:                  formString(r, "city"),
		State:                 formString(r, "state"),
		ZipCode:               formString(r, "zip_code"),
		EmergencyContactName:  formString(r, "emergency_contact_name"),
		EmergencyContactPhone: formString(r, "emergency_contact_phone"),
		SpouseName:            formString(r, "spouse_name"),
		SpouseIDNumber:        formString(r, "spouse_id_number"),
		SpousePhone:           formString(r, "spouse_phone"),
		SpouseEmail:           formString(r, "spouse_email"),
		ChildrenInfo:          formString(r, "children_info"),
	}, nil
}

func (h *ApplicationHandler) readForm(w http.ResponseWriter, r *http.Request) (*domain.Application, *service.Upload, func(), error) {
	if err := parseMultipart(w, r, h.maxUpload); err != nil {
		return nil, nil, func() {}, err
	}
	app, err := applicationFromForm(r)
	if err != nil {
		return nil, nil, func() {}, err
	}
	doc, done, err := formFile(r, "id_document")
	return app, doc, done, err
}

// Submit handles POST /applications/{type}/submit.
func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	app, doc, done, err := h.readForm(w, r)
	defer done()
	if err != nil {
		writeError(w, r, err)
		return
	}
	app.MembershipType = domain.MembershipType(mux.Vars(r)["type"])

	created, err := h.appSvc.Submit(r.Context(), actor, app, doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ApplicationHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	app, doc, done, err := h.readForm(w, r)
	defer done()
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.appSvc.Upgrade(r.Context(), actor, app, doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
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
	app, err := h.appSvc.Get(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, app)
}

func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
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
	app, doc, done, err := h.readForm(w, r)
	defer done()
	if err != nil {
		writeError(w, r, err)
		return
	}
	app.ID = id
	updated, err := h.appSvc.Update(r.Context(), actor, app, doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
