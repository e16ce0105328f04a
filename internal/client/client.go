// Package client is the REST adapter used by admin tooling to talk to the membership API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pamoja-backend/internal/domain"
	"pamoja-backend/internal/gate"
	"pamoja-backend/internal/lifecycle"
	"pamoja-backend/internal/logger"

	"github.com/tidwall/gjson"
)

const defaultTimeout = 30 * time.Second

// Config configures the client.
type Config struct {
	// BaseURL includes the API prefix, e.g. http://localhost:8080/api
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *Session
}

func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		session:    &Session{},
	}
}

func (c *Client) Session() *Session {
	return c.session
}

type loginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *domain.User `json:"user"`
}

// Login authenticates and stores the credential in the session.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.User, error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/login", map[string]string{"username": username, "password": password})
	if err != nil {
		return nil, err
	}
	var res loginResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, domain.NewError(domain.ErrServer, "malformed login response: %v", err)
	}
	if res.AccessToken == "" {
		return nil, domain.NewError(domain.ErrServer, "login response carried no token")
	}
	c.session.Set(res.AccessToken, res.RefreshToken, res.User)
	return res.User, nil
}

// Logout forgets the credential locally.
func (c *Client) Logout() {
	c.session.Clear()
}

func (c *Client) CurrentUser(ctx context.Context) (*domain.User, error) {
	body, err := c.do(ctx, http.MethodGet, "/auth/user", nil)
	if err != nil {
		return nil, err
	}
	var u domain.User
	if err := json.Unmarshal(unwrapObject(body), &u); err != nil {
		return nil, domain.NewError(domain.ErrServer, "malformed user: %v", err)
	}
	c.session.SetUser(&u)
	return &u, nil
}

// MyPayments lists the signed-in user's payments.
func (c *Client) MyPayments(ctx context.Context) ([]domain.Payment, error) {
	body, err := c.do(ctx, http.MethodGet, "/payments", nil)
	if err != nil {
		return nil, err
	}
	var payments []domain.Payment
	if err := json.Unmarshal(NormalizeList(body), &payments); err != nil {
		return nil, domain.NewError(domain.ErrServer, "malformed payment list: %v", err)
	}
	for i := range payments {
		payments[i].Status = domain.NormalizeReviewStatus(string(payments[i].Status))
	}
	return payments, nil
}

// Access evaluates the activation gate from the current user and their payments.
func (c *Client) Access(ctx context.Context) (gate.Decision, error) {
	u, err := c.CurrentUser(ctx)
	if err != nil {
		return gate.Decision{}, err
	}
	if u.IsStaff || u.IsActivated {
		return gate.Allowed, nil
	}
	payments, err := c.MyPayments(ctx)
	if err != nil {
		return gate.Decision{}, err
	}
	return gate.CanAccess(u, payments), nil
}

// ActivationPayment describes an activation fee submission.
type ActivationPayment struct {
	Method        domain.PaymentMethod
	AmountCents   int64
	TransactionID string
	Notes         string
	ProofName     string
	Proof         io.Reader
}

// SubmitActivationPayment uploads an activation fee proof and returns the pending payment
// together with the gate decision that follows from it.
func (c *Client) SubmitActivationPayment(ctx context.Context, prior gate.Decision, p ActivationPayment) (*domain.Payment, gate.Decision, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("payment_method", string(p.Method))
	_ = w.WriteField("amount_cents", strconv.FormatInt(p.AmountCents, 10))
	_ = w.WriteField("transaction_id", p.TransactionID)
	_ = w.WriteField("notes", p.Notes)
	if p.Proof != nil {
		part, err := w.CreateFormFile("payment_proof", p.ProofName)
		if err != nil {
			return nil, prior, fmt.Errorf("failed to build upload: %w", err)
		}
		if _, err := io.Copy(part, p.Proof); err != nil {
			return nil, prior, fmt.Errorf("failed to read proof: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, prior, fmt.Errorf("failed to build upload: %w", err)
	}

	body, err := c.send(ctx, http.MethodPost, "/payments/activation/submit", &buf, w.FormDataContentType())
	if err != nil {
		return nil, prior, err
	}
	v, err := decodeEntity(lifecycle.EntityPayment, unwrapObject(body))
	if err != nil {
		return nil, prior, err
	}
	payment := v.(*domain.Payment)
	return payment, gate.AfterSubmission(prior, payment), nil
}

var listPaths = map[lifecycle.Entity]string{
	lifecycle.EntityApplication:    "/admin/applications",
	lifecycle.EntityPayment:        "/admin/payments",
	lifecycle.EntitySharePurchase:  "/admin/shares",
	lifecycle.EntityClaim:          "/admin/claims",
	lifecycle.EntityDocument:       "/admin/documents",
	lifecycle.EntityUser:           "/admin/users",
	lifecycle.EntityContactMessage: "/admin/contact",
}

// List fetches the admin list of an entity kind.
func (c *Client) List(ctx context.Context, entity lifecycle.Entity, filter domain.ListFilter) ([]domain.Reviewable, error) {
	path, ok := listPaths[entity]
	if !ok {
		return nil, domain.Validationf("no list endpoint for %s", entity)
	}
	body, err := c.do(ctx, http.MethodGet, path+filterQuery(filter), nil)
	if err != nil {
		return nil, err
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(NormalizeList(body), &raws); err != nil {
		return nil, domain.NewError(domain.ErrServer, "malformed %s list: %v", entity, err)
	}
	out := make([]domain.Reviewable, 0, len(raws))
	for _, raw := range raws {
		v, err := decodeEntity(entity, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

var decisionPaths = map[lifecycle.Entity]map[lifecycle.Action]string{
	lifecycle.EntityApplication: {
		lifecycle.ActionApprove: "/applications/%d/approve",
		lifecycle.ActionReject:  "/applications/%d/reject",
	},
	lifecycle.EntityPayment: {
		lifecycle.ActionApprove: "/admin/payments/%d/approve_payment",
		lifecycle.ActionReject:  "/admin/payments/%d/reject_payment",
	},
	lifecycle.EntitySharePurchase: {
		lifecycle.ActionApprove: "/admin/shares/%d/approve",
		lifecycle.ActionReject:  "/admin/shares/%d/reject",
	},
	lifecycle.EntityUser: {
		lifecycle.ActionActivate:   "/admin/users/%d/activate_user",
		lifecycle.ActionDeactivate: "/admin/users/%d/deactivate_user",
	},
	lifecycle.EntityClaim: {
		lifecycle.ActionApprove: "/claims/%d/approve",
		lifecycle.ActionReject:  "/claims/%d/reject",
	},
	lifecycle.EntityDocument: {
		lifecycle.ActionApprove: "/documents/%d/approve",
		lifecycle.ActionReject:  "/documents/%d/reject",
	},
	lifecycle.EntityContactMessage: {
		lifecycle.ActionMarkRead: "/admin/contact/%d/mark_read",
		lifecycle.ActionReply:    "/admin/contact/%d/reply",
	},
}

// Decide posts an admin decision and returns the entity as the server now has it.
func (c *Client) Decide(ctx context.Context, entity lifecycle.Entity, id int32, action lifecycle.Action, p lifecycle.Payload) (domain.Reviewable, error) {
	pattern, ok := decisionPaths[entity][action]
	if !ok {
		return nil, domain.NewError(domain.ErrInvalidTransition, "%s cannot be applied to a %s", action, entity)
	}
	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf(pattern, id), p)
	if err != nil {
		return nil, err
	}
	return decodeEntity(entity, unwrapObject(body))
}

func (c *Client) UpdateShares(ctx context.Context, userID, sharesOwned, availableShares int32) (*domain.User, error) {
	req := map[string]int32{"shares_owned": sharesOwned, "available_shares": availableShares}
	body, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/users/%d/update_shares", userID), req)
	if err != nil {
		return nil, err
	}
	v, err := decodeEntity(lifecycle.EntityUser, unwrapObject(body))
	if err != nil {
		return nil, err
	}
	return v.(*domain.User), nil
}

func (c *Client) DeductSharesFromAll(ctx context.Context, amount int32, reason string) (*domain.DeductionResult, error) {
	req := map[string]any{"amount": amount, "reason": reason}
	body, err := c.do(ctx, http.MethodPost, "/admin/users/deduct_shares_all", req)
	if err != nil {
		return nil, err
	}
	var res domain.DeductionResult
	if err := json.Unmarshal(unwrapObject(body), &res); err != nil {
		return nil, domain.NewError(domain.ErrServer, "malformed deduction result: %v", err)
	}
	return &res, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, domain.Validationf("cannot encode request: %v", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, body, contentType)
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, domain.Validationf("cannot build request: %v", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger.ExternalServiceCall("pamoja-api", method+" "+path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		err = domain.NewError(domain.ErrNetwork, "request to %s failed: %v", path, err)
		logger.ExternalServiceResult("pamoja-api", method+" "+path, err)
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		err = domain.NewError(domain.ErrNetwork, "reading response from %s failed: %v", path, err)
		logger.ExternalServiceResult("pamoja-api", method+" "+path, err)
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Clear()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err = errorFromResponse(resp.StatusCode, data)
		logger.ExternalServiceResult("pamoja-api", method+" "+path, err, "status", resp.StatusCode)
		return nil, err
	}
	logger.ExternalServiceResult("pamoja-api", method+" "+path, nil, "status", resp.StatusCode)
	return data, nil
}

// errorFromResponse maps an HTTP failure onto the error taxonomy.
func errorFromResponse(status int, body []byte) error {
	msg := ""
	for _, field := range []string{"error", "detail", "message"} {
		if v := gjson.GetBytes(body, field); v.Exists() && v.Type == gjson.String {
			msg = v.String()
			break
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	var kind error
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = domain.ErrValidation
	case status == http.StatusUnauthorized:
		kind = domain.ErrUnauthorized
	case status == http.StatusForbidden:
		kind = domain.ErrForbidden
		if gjson.GetBytes(body, "kind").String() == domain.KindActivationRequired {
			kind = domain.ErrActivationRequired
		}
	case status == http.StatusNotFound:
		kind = domain.ErrNotFound
	case status == http.StatusConflict:
		kind = domain.ErrInvalidTransition
	case status >= 500:
		kind = domain.ErrServer
	default:
		kind = domain.KindFromName(gjson.GetBytes(body, "kind").String())
	}
	return &domain.Error{Kind: kind, Message: msg}
}

// NormalizeList extracts the list from any of the response shapes the API has used:
// {"results": [...]}, {"data": [...]}, a bare array, or anything else as empty.
func NormalizeList(body []byte) []byte {
	for _, field := range []string{"results", "data"} {
		if v := gjson.GetBytes(body, field); v.IsArray() {
			return []byte(v.Raw)
		}
	}
	if root := gjson.ParseBytes(body); root.IsArray() {
		return []byte(root.Raw)
	}
	return []byte("[]")
}

func unwrapObject(body []byte) []byte {
	if v := gjson.GetBytes(body, "data"); v.IsObject() {
		return []byte(v.Raw)
	}
	return body
}

func decodeEntity(entity lifecycle.Entity, raw []byte) (domain.Reviewable, error) {
	var v domain.Reviewable
	switch entity {
	case lifecycle.EntityApplication:
		v = &domain.Application{}
	case lifecycle.EntityPayment:
		v = &domain.Payment{}
	case lifecycle.EntitySharePurchase:
		v = &domain.SharePurchase{}
	case lifecycle.EntityClaim:
		v = &domain.Claim{}
	case lifecycle.EntityDocument:
		v = &domain.Document{}
	case lifecycle.EntityUser:
		v = &domain.User{}
	case lifecycle.EntityContactMessage:
		v = &domain.ContactMessage{}
	default:
		return nil, domain.Validationf("unknown entity %s", entity)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return nil, domain.NewError(domain.ErrServer, "malformed %s: %v", entity, err)
	}
	if p, ok := v.(*domain.Payment); ok {
		p.Status = domain.NormalizeReviewStatus(string(p.Status))
	}
	return v, nil
}

func filterQuery(f domain.ListFilter) string {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.From != nil {
		q.Set("from", f.From.Format("2006-01-02"))
	}
	if f.To != nil {
		q.Set("to", f.To.Format("2006-01-02"))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(int(f.Limit)))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(int(f.Offset)))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
