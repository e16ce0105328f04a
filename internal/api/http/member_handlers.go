package http

import (
	"net/http"
	"strconv"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/service"
)

type ShareHandler struct {
	shareSvc  service.ShareService
	maxUpload int64
}

func NewShareHandler(shareSvc service.ShareService, maxUpload int64) *ShareHandler {
	return &ShareHandler{shareSvc: shareSvc, maxUpload: maxUpload}
}

// Buy handles POST /shares/buy as JSON or as a multipart form with an optional payment_proof.
func (h *ShareHandler) Buy(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}

	var (
		purchase domain.SharePurchase
		proof    *service.Upload
		done     = func() {}
	)
	if isMultipart(r) {
		if err := parseMultipart(w, r, h.maxUpload); err != nil {
			writeError(w, r, err)
			return
		}
		qty, err := strconv.ParseInt(formString(r, "quantity"), 10, 32)
		if err != nil {
			writeError(w, r, domain.Validationf("invalid quantity"))
			return
		}
		purchase.Quantity = int32(qty)
		purchase.PaymentMethod = domain.PaymentMethod(formString(r, "payment_method"))
		purchase.TransactionID = formString(r, "transaction_id")
		if proof, done, err = formFile(r, "payment_proof"); err != nil {
			writeError(w, r, err)
			return
		}
	} else if err := decodeJSON(r, &purchase); err != nil {
		writeError(w, r, err)
		return
	}
	defer done()

	created, err := h.shareSvc.Buy(r.Context(), actor, &purchase, proof)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type ClaimHandler struct {
	claimSvc  service.ClaimService
	maxUpload int64
}

func NewClaimHandler(claimSvc service.ClaimService, maxUpload int64) *ClaimHandler {
	return &ClaimHandler{claimSvc: claimSvc, maxUpload: maxUpload}
}

func (h *ClaimHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := parseMultipart(w, r, h.maxUpload); err != nil {
		writeError(w, r, err)
		return
	}
	amount, err := formInt64(r, "amount_requested_cents")
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, done, err := formFile(r, "supporting_document")
	defer done()
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.claimSvc.Submit(r.Context(), actor, &domain.Claim{
		ClaimType:       domain.ClaimType(formString(r, "claim_type")),
		Title:           formString(r, "title"),
		Description:     formString(r, "description"),
		AmountRequested: amount,
	}, doc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type DocumentHandler struct {
	docSvc    service.DocumentService
	maxUpload int64
}

func NewDocumentHandler(docSvc service.DocumentService, maxUpload int64) *DocumentHandler {
	return &DocumentHandler{docSvc: docSvc, maxUpload: maxUpload}
}

func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := parseMultipart(w, r, h.maxUpload); err != nil {
		writeError(w, r, err)
		return
	}
	file, done, err := formFile(r, "file")
	defer done()
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.docSvc.Upload(r.Context(), actor, &domain.Document{
		DocumentType: domain.DocumentType(formString(r, "document_type")),
		Title:        formString(r, "title"),
	}, file)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *DocumentHandler) File(w http.ResponseWriter, r *http.Request) {
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
	rc, contentType, err := h.docSvc.Open(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	streamFile(w, rc, contentType)
}

type ContactHandler struct {
	contactSvc service.ContactService
}

func NewContactHandler(contactSvc service.ContactService) *ContactHandler {
	return &ContactHandler{contactSvc: contactSvc}
}

// Submit is public. Signed-in senders are linked to their account.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var msg domain.ContactMessage
	if err := decodeJSON(r, &msg); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.contactSvc.Submit(r.Context(), optionalUserID(r.Context()), &msg)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

type NotificationHandler struct {
	noteSvc service.NotificationService
}

func NewNotificationHandler(noteSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{noteSvc: noteSvc}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
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
	notes, count, err := h.noteSvc.GetNotifications(r.Context(), actor.UserID, filter.Limit, filter.Offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if notes == nil {
		notes = []domain.Notification{}
	}
	writeList(w, notes, count)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
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
	if err := h.noteSvc.MarkAsRead(r.Context(), actor.UserID, id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
