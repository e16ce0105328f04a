package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/gate"
	"pamoja-backend/internal/lifecycle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Config{BaseURL: srv.URL + "/api/"})
}

func TestClient_Login(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin", body["username"])
		_, _ = w.Write([]byte(`{"access_token":"tok","refresh_token":"ref","user":{"id":1,"username":"admin","is_staff":true}}`))
	})

	u, err := c.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)
	assert.True(t, u.IsStaff)
	assert.Equal(t, "tok", c.Session().Token())
	assert.Equal(t, "ref", c.Session().RefreshToken())

	c.Logout()
	assert.False(t, c.Session().Authenticated())
	assert.Nil(t, c.Session().User())
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer stale", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"token has expired","kind":"unauthorized"}`))
	})
	c.Session().Set("stale", "ref", &domain.User{ID: 3})

	_, err := c.CurrentUser(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "token has expired", err.Error())
	assert.False(t, c.Session().Authenticated())
	assert.Nil(t, c.Session().User())
}

func TestClient_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		body   string
		want   error
	}{
		{http.StatusBadRequest, `{"error":"reason is required"}`, domain.ErrValidation},
		{http.StatusForbidden, `{"detail":"admins only"}`, domain.ErrForbidden},
		{http.StatusForbidden, `{"error":"pay first","kind":"activation_required"}`, domain.ErrActivationRequired},
		{http.StatusNotFound, ``, domain.ErrNotFound},
		{http.StatusConflict, `{"error":"payment is approved"}`, domain.ErrInvalidTransition},
		{http.StatusBadGateway, `<html>`, domain.ErrServer},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Decide(context.Background(), lifecycle.EntityPayment, 4, lifecycle.ActionApprove, lifecycle.Payload{})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()
	c := New(Config{BaseURL: srv.URL})

	_, err := c.CurrentUser(context.Background())
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestClient_Decide(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/admin/payments/12/reject_payment", r.URL.Path)
		var p lifecycle.Payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		assert.Equal(t, "blurry proof", p.Notes)
		_, _ = w.Write([]byte(`{"id":12,"user_id":5,"status":"failed","admin_notes":"blurry proof"}`))
	})

	v, err := c.Decide(context.Background(), lifecycle.EntityPayment, 12, lifecycle.ActionReject, lifecycle.Payload{Notes: "blurry proof"})
	require.NoError(t, err)
	p := v.(*domain.Payment)
	assert.Equal(t, domain.ReviewStatusRejected, p.Status)
	assert.Equal(t, int32(5), p.OwnerID())
}

func TestClient_DecideUnknownRoute(t *testing.T) {
	c := New(Config{BaseURL: "http://127.0.0.1:0"})
	_, err := c.Decide(context.Background(), lifecycle.EntityPayment, 1, lifecycle.ActionReply, lifecycle.Payload{})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestNormalizeList(t *testing.T) {
	assert.JSONEq(t, `[{"id":1}]`, string(NormalizeList([]byte(`{"results":[{"id":1}],"count":1}`))))
	assert.JSONEq(t, `[{"id":2}]`, string(NormalizeList([]byte(`{"data":[{"id":2}]}`))))
	assert.JSONEq(t, `[{"id":3}]`, string(NormalizeList([]byte(`[{"id":3}]`))))
	assert.JSONEq(t, `[]`, string(NormalizeList([]byte(`{"detail":"nothing"}`))))
	assert.JSONEq(t, `[]`, string(NormalizeList([]byte(``))))
}

func TestClient_ListNormalizesStatuses(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/admin/payments", r.URL.Path)
		assert.Equal(t, "pending", r.URL.Query().Get("status"))
		_, _ = w.Write([]byte(`{"data":[{"id":1,"status":"completed"},{"id":2,"status":"pending"}]}`))
	})

	list, err := c.List(context.Background(), lifecycle.EntityPayment, domain.ListFilter{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "approved", list[0].CurrentStatus())
	assert.Equal(t, "pending", list[1].CurrentStatus())
}

func TestClient_Access(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/user":
			_, _ = w.Write([]byte(`{"id":5,"is_activated":false,"is_active":true}`))
		case "/api/payments":
			_, _ = w.Write([]byte(`{"results":[{"id":1,"user_id":5,"payment_type":"activation_fee","status":"pending"}],"count":1}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	d, err := c.Access(context.Background())
	require.NoError(t, err)
	assert.Equal(t, gate.Blocked(gate.ReasonPendingPayment), d)
}

func TestClient_SubmitActivationPayment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payments/activation/submit", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "mpesa", r.FormValue("payment_method"))
		f, _, err := r.FormFile("payment_proof")
		require.NoError(t, err)
		proof, _ := io.ReadAll(f)
		assert.Equal(t, "receipt", string(proof))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":8,"user_id":5,"payment_type":"activation_fee","status":"pending","amount_cents":5000}`))
	})

	p, d, err := c.SubmitActivationPayment(context.Background(), gate.Blocked(gate.ReasonPaymentRequired), ActivationPayment{
		Method:      domain.PaymentMethodMpesa,
		AmountCents: 5000,
		ProofName:   "receipt.jpg",
		Proof:       strings.NewReader("receipt"),
	})
	require.NoError(t, err)
	assert.Equal(t, int32(8), p.ID)
	assert.Equal(t, gate.Blocked(gate.ReasonPendingPayment), d)
}
