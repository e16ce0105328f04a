package http

import (
	"net/http"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/service"
)

type PaymentHandler struct {
	paymentSvc service.PaymentService
	maxUpload  int64
}

func NewPaymentHandler(paymentSvc service.PaymentService, maxUpload int64) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc, maxUpload: maxUpload}
}

func paymentFromForm(r *http.Request) (*domain.Payment, error) {
	amount, err := formInt64(r, "amount_cents")
	if err != nil {
		return nil, err
	}
	return &domain.Payment{
		PaymentType:   domain.PaymentType(formString(r, "payment_type")),
		PaymentMethod: domain.PaymentMethod(formString(r, "payment_method")),
		AmountCents:   amount,
		TransactionID: formString(r, "transaction_id"),
		Notes:         formString(r, "notes"),
	}, nil
}

// readPayment accepts a multipart form with an optional payment_proof file, or a JSON body.
func (h *PaymentHandler) readPayment(w http.ResponseWriter, r *http.Request) (*domain.Payment, *service.Upload, func(), error) {
	if !isMultipart(r) {
		var p domain.Payment
		if err := decodeJSON(r, &p); err != nil {
			return nil, nil, func() {}, err
		}
		return &p, nil, func() {}, nil
	}
	if err := parseMultipart(w, r, h.maxUpload); err != nil {
		return nil, nil, func() {}, err
	}
	p, err := paymentFromForm(r)
	if err != nil {
		return nil, nil, func() {}, err
	}
	proof, done, err := formFile(r, "payment_proof")
	return p, proof, done, err
}

// SubmitActivation handles POST /payments/activation/submit.
func (h *PaymentHandler) SubmitActivation(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, proof, done, err := h.readPayment(w, r)
	defer done()
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.paymentSvc.SubmitActivation(r.Context(), actor, p, proof)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *PaymentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, proof, done, err := h.readPayment(w, r)
	defer done()
	if err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.paymentSvc.Submit(r.Context(), actor, p, proof)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *PaymentHandler) Receipt(w http.ResponseWriter, r *http.Request) {
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
	receipt, err := h.paymentSvc.Receipt(r.Context(), actor, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="receipt.txt"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(receipt))
}

func (h *PaymentHandler) Proof(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rc, contentType, err := h.paymentSvc.Proof(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	streamFile(w, rc, contentType)
}

func (h *PaymentHandler) FinancialReport(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	report, err := h.paymentSvc.FinancialReport(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
