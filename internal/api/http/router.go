package http

import (
	"net/http"

	"pamoja-backend/internal/lifecycle"
	"pamoja-backend/internal/metrics"
	"pamoja-backend/internal/security"
	"pamoja-backend/internal/service"

	"github.com/gorilla/mux"
)

// Services are the dependencies of the REST API.
type Services struct {
	Auth          service.AuthService
	Applications  service.ApplicationService
	Payments      service.PaymentService
	Shares        service.ShareService
	Claims        service.ClaimService
	Documents     service.DocumentService
	Contact       service.ContactService
	Admin         service.AdminService
	Content       service.ContentService
	Notifications service.NotificationService
}

type RouterOptions struct {
	Tokens         security.TokenManager
	MaxUploadBytes int64
	Limiter        *LoginLimiter
	// Health reports whether dependencies are reachable. Nil means always healthy.
	Health func(r *http.Request) error
}

// NewRouter registers every named route under /api plus the ops endpoints.
func NewRouter(svc Services, opts RouterOptions) *mux.Router {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}
	if opts.Limiter == nil {
		opts.Limiter = NewLoginLimiter(0, 0)
	}

	auth := NewAuthHandler(svc.Auth)
	apps := NewApplicationHandler(svc.Applications, opts.MaxUploadBytes)
	payments := NewPaymentHandler(svc.Payments, opts.MaxUploadBytes)
	shares := NewShareHandler(svc.Shares, opts.MaxUploadBytes)
	claims := NewClaimHandler(svc.Claims, opts.MaxUploadBytes)
	docs := NewDocumentHandler(svc.Documents, opts.MaxUploadBytes)
	contact := NewContactHandler(svc.Contact)
	content := NewContentHandler(svc.Content)
	notes := NewNotificationHandler(svc.Notifications)
	admin := NewAdminHandler(svc.Admin)

	router := mux.NewRouter()
	router.Use(metrics.InstrumentHandler)
	router.Use(NewAuthMiddleware(opts.Tokens, svc.Auth).Handler)

	router.HandleFunc("/healthz", health(opts.Health)).Methods(http.MethodGet).Name("ops.health")
	router.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet).Name("ops.metrics")

	api := router.PathPrefix("/api").Subrouter()
	route := func(method, path, name string, h http.HandlerFunc) {
		api.HandleFunc(path, h).Methods(method).Name(name)
	}

	// Auth
	route(http.MethodPost, "/auth/register", "auth.register", auth.Register)
	route(http.MethodPost, "/auth/login", "auth.login", opts.Limiter.Wrap(auth.Login))
	route(http.MethodPost, "/auth/refresh", "auth.refresh", auth.Refresh)
	route(http.MethodGet, "/auth/user", "auth.user.get", auth.GetUser)
	route(http.MethodPut, "/auth/user", "auth.user.update", auth.UpdateUser)
	route(http.MethodPost, "/auth/change-password", "auth.change_password", auth.ChangePassword)
	route(http.MethodGet, "/auth/access", "auth.access", auth.Access)
	route(http.MethodGet, "/auth/dashboard", "auth.dashboard", auth.Dashboard)

	// Applications
	route(http.MethodGet, "/applications", "applications.list", ownList(svc.Applications.List))
	route(http.MethodPost, "/applications/{type:single|double}/submit", "applications.submit", apps.Submit)
	route(http.MethodPost, "/applications/upgrade", "applications.upgrade", apps.Upgrade)
	route(http.MethodGet, "/applications/{id:[0-9]+}", "applications.get", apps.Get)
	route(http.MethodPut, "/applications/{id:[0-9]+}", "applications.update", apps.Update)
	route(http.MethodDelete, "/applications/{id:[0-9]+}", "applications.delete", deletion(svc.Applications.Delete))
	route(http.MethodPost, "/applications/{id:[0-9]+}/approve", "applications.approve", decision(svc.Applications.Decide, lifecycle.ActionApprove))
	route(http.MethodPost, "/applications/{id:[0-9]+}/reject", "applications.reject", decision(svc.Applications.Decide, lifecycle.ActionReject))

	// Payments
	route(http.MethodGet, "/payments", "payments.list", ownList(svc.Payments.List))
	route(http.MethodPost, "/payments", "payments.submit", payments.Submit)
	route(http.MethodPost, "/payments/activation/submit", "payments.activation.submit", payments.SubmitActivation)
	route(http.MethodDelete, "/payments/{id:[0-9]+}", "payments.delete", deletion(svc.Payments.Delete))
	route(http.MethodGet, "/payments/{id:[0-9]+}/receipt", "payments.receipt", payments.Receipt)

	// Shares
	route(http.MethodGet, "/shares", "shares.list", ownList(svc.Shares.List))
	route(http.MethodPost, "/shares/buy", "shares.buy", shares.Buy)
	route(http.MethodGet, "/shares/deductions", "shares.deductions", ownList(svc.Shares.ListDeductions))
	route(http.MethodDelete, "/shares/{id:[0-9]+}", "shares.delete", deletion(svc.Shares.Delete))

	// Claims
	route(http.MethodGet, "/claims", "claims.list", ownList(svc.Claims.List))
	route(http.MethodPost, "/claims", "claims.submit", claims.Submit)
	route(http.MethodDelete, "/claims/{id:[0-9]+}", "claims.delete", deletion(svc.Claims.Delete))
	route(http.MethodPost, "/claims/{id:[0-9]+}/approve", "claims.approve", decision(svc.Claims.Decide, lifecycle.ActionApprove))
	route(http.MethodPost, "/claims/{id:[0-9]+}/reject", "claims.reject", decision(svc.Claims.Decide, lifecycle.ActionReject))

	// Documents
	route(http.MethodGet, "/documents", "documents.list", ownList(svc.Documents.List))
	route(http.MethodPost, "/documents", "documents.upload", docs.Upload)
	route(http.MethodDelete, "/documents/{id:[0-9]+}", "documents.delete", deletion(svc.Documents.Delete))
	route(http.MethodGet, "/documents/{id:[0-9]+}/file", "documents.file", docs.File)
	route(http.MethodPost, "/documents/{id:[0-9]+}/approve", "documents.approve", decision(svc.Documents.Decide, lifecycle.ActionApprove))
	route(http.MethodPost, "/documents/{id:[0-9]+}/reject", "documents.reject", decision(svc.Documents.Decide, lifecycle.ActionReject))

	// Contact
	route(http.MethodPost, "/contact", "contact.submit", contact.Submit)
	route(http.MethodGet, "/contact", "contact.mine", ownList(svc.Contact.List))

	// Content
	route(http.MethodGet, "/announcements", "announcements.list", content.ListAnnouncements)
	route(http.MethodGet, "/meetings", "meetings.list", content.ListMeetings)
	route(http.MethodGet, "/meetings/{id:[0-9]+}", "meetings.get", content.GetMeeting)
	route(http.MethodPost, "/meetings/{id:[0-9]+}/register", "meetings.register", content.Register)

	// Notifications
	route(http.MethodGet, "/notifications", "notifications.list", notes.List)
	route(http.MethodPost, "/notifications/{id:[0-9]+}/read", "notifications.read", notes.MarkRead)

	// Admin users
	route(http.MethodGet, "/admin/users", "admin.users.list", adminList(svc.Admin.ListUsers))
	route(http.MethodGet, "/admin/users/stats", "admin.users.stats", admin.Stats)
	route(http.MethodPost, "/admin/users/deduct_shares_all", "admin.users.deduct_shares_all", admin.DeductSharesFromAll)
	route(http.MethodGet, "/admin/users/{id:[0-9]+}", "admin.users.get", admin.GetUser)
	route(http.MethodPost, "/admin/users/{id:[0-9]+}/activate_user", "admin.users.activate", decision(svc.Admin.Decide, lifecycle.ActionActivate))
	route(http.MethodPost, "/admin/users/{id:[0-9]+}/deactivate_user", "admin.users.deactivate", decision(svc.Admin.Decide, lifecycle.ActionDeactivate))
	route(http.MethodPost, "/admin/users/{id:[0-9]+}/update_shares", "admin.users.update_shares", admin.UpdateShares)

	// Admin review queues
	route(http.MethodGet, "/admin/applications", "admin.applications.list", adminList(svc.Applications.List))
	route(http.MethodGet, "/admin/payments", "admin.payments.list", adminList(svc.Payments.List))
	route(http.MethodGet, "/admin/payments/financial_report", "admin.payments.report", payments.FinancialReport)
	route(http.MethodGet, "/admin/payments/{id:[0-9]+}/proof", "admin.payments.proof", payments.Proof)
	route(http.MethodPost, "/admin/payments/{id:[0-9]+}/approve_payment", "admin.payments.approve", decision(svc.Payments.Decide, lifecycle.ActionApprove))
	route(http.MethodPost, "/admin/payments/{id:[0-9]+}/reject_payment", "admin.payments.reject", decision(svc.Payments.Decide, lifecycle.ActionReject))
	route(http.MethodGet, "/admin/shares", "admin.shares.list", adminList(svc.Shares.List))
	route(http.MethodGet, "/admin/shares/deductions", "admin.shares.deductions", adminList(svc.Shares.ListDeductions))
	route(http.MethodPost, "/admin/shares/{id:[0-9]+}/approve", "admin.shares.approve", decision(svc.Shares.Decide, lifecycle.ActionApprove))
	route(http.MethodPost, "/admin/shares/{id:[0-9]+}/reject", "admin.shares.reject", decision(svc.Shares.Decide, lifecycle.ActionReject))
	route(http.MethodGet, "/admin/claims", "admin.claims.list", adminList(svc.Claims.List))
	route(http.MethodGet, "/admin/documents", "admin.documents.list", adminList(svc.Documents.List))
	route(http.MethodGet, "/admin/contact", "admin.contact.list", adminList(svc.Contact.List))
	route(http.MethodPost, "/admin/contact/{id:[0-9]+}/mark_read", "admin.contact.mark_read", decision(svc.Contact.Decide, lifecycle.ActionMarkRead))
	route(http.MethodPost, "/admin/contact/{id:[0-9]+}/reply", "admin.contact.reply", decision(svc.Contact.Decide, lifecycle.ActionReply))

	// Admin content
	route(http.MethodPost, "/admin/announcements", "admin.announcements.create", content.CreateAnnouncement)
	route(http.MethodPut, "/admin/announcements/{id:[0-9]+}", "admin.announcements.update", content.UpdateAnnouncement)
	route(http.MethodDelete, "/admin/announcements/{id:[0-9]+}", "admin.announcements.delete", deletion(svc.Content.DeleteAnnouncement))
	route(http.MethodPost, "/admin/meetings", "admin.meetings.create", content.CreateMeeting)
	route(http.MethodPut, "/admin/meetings/{id:[0-9]+}", "admin.meetings.update", content.UpdateMeeting)
	route(http.MethodDelete, "/admin/meetings/{id:[0-9]+}", "admin.meetings.delete", deletion(svc.Content.DeleteMeeting))
	route(http.MethodGet, "/admin/meetings/{id:[0-9]+}/registrations", "admin.meetings.registrations", content.Registrations)

	return router
}

func health(check func(r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
