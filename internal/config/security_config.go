// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic    SecurityLevel = iota // No authentication
	SecurityRefresh                        // Refresh token required
	SecurityMember                         // Access token required
	SecurityActivated                      // Access token and an activated account required
	SecurityAdmin                          // Access token of a staff user required
)

func (l SecurityLevel) String() string {
	switch l {
	case SecurityPublic:
		return "public"
	case SecurityRefresh:
		return "refresh"
	case SecurityMember:
		return "member"
	case SecurityActivated:
		return "activated"
	default:
		return "admin"
	}
}

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Operations - Public
	"ops.health":  SecurityPublic,
	"ops.metrics": SecurityPublic,

	// Auth - Public
	"auth.register": SecurityPublic,
	"auth.login":    SecurityPublic,

	// Auth - Refresh Protected
	"auth.refresh": SecurityRefresh,

	// Auth - Access Protected
	"auth.user.get":        SecurityMember,
	"auth.user.update":     SecurityMember,
	"auth.change_password": SecurityMember,
	"auth.access":          SecurityMember,
	"auth.dashboard":       SecurityMember,

	// Applications
	"applications.list":    SecurityMember,
	"applications.submit":  SecurityMember,
	"applications.upgrade": SecurityActivated,
	"applications.get":     SecurityMember,
	"applications.update":  SecurityMember,
	"applications.delete":  SecurityMember,
	"applications.approve": SecurityAdmin,
	"applications.reject":  SecurityAdmin,

	// Payments
	"payments.list":              SecurityMember,
	"payments.submit":            SecurityMember,
	"payments.activation.submit": SecurityMember,
	"payments.delete":            SecurityMember,
	"payments.receipt":           SecurityMember,

	// Shares
	"shares.list":       SecurityMember,
	"shares.buy":        SecurityActivated,
	"shares.deductions": SecurityMember,
	"shares.delete":     SecurityMember,

	// Claims
	"claims.list":    SecurityMember,
	"claims.submit":  SecurityActivated,
	"claims.delete":  SecurityMember,
	"claims.approve": SecurityAdmin,
	"claims.reject":  SecurityAdmin,

	// Documents
	"documents.list":    SecurityMember,
	"documents.upload":  SecurityActivated,
	"documents.delete":  SecurityMember,
	"documents.file":    SecurityMember,
	"documents.approve": SecurityAdmin,
	"documents.reject":  SecurityAdmin,

	// Contact - Public submission
	"contact.submit": SecurityPublic,
	"contact.mine":   SecurityMember,

	// Content
	"announcements.list": SecurityMember,
	"meetings.list":      SecurityMember,
	"meetings.get":       SecurityMember,
	"meetings.register":  SecurityActivated,

	// Notifications
	"notifications.list": SecurityMember,
	"notifications.read": SecurityMember,

	// Admin - Staff only
	"admin.users.list":              SecurityAdmin,
	"admin.users.get":               SecurityAdmin,
	"admin.users.stats":             SecurityAdmin,
	"admin.users.activate":          SecurityAdmin,
	"admin.users.deactivate":        SecurityAdmin,
	"admin.users.update_shares":     SecurityAdmin,
	"admin.users.deduct_shares_all": SecurityAdmin,
	"admin.applications.list":       SecurityAdmin,
	"admin.payments.list":           SecurityAdmin,
	"admin.payments.approve":        SecurityAdmin,
	"admin.payments.reject":         SecurityAdmin,
	"admin.payments.report":         SecurityAdmin,
	"admin.payments.proof":          SecurityAdmin,
	"admin.shares.list":             SecurityAdmin,
	"admin.shares.deductions":       SecurityAdmin,
	"admin.shares.approve":          SecurityAdmin,
	"admin.shares.reject":           SecurityAdmin,
	"admin.claims.list":             SecurityAdmin,
	"admin.documents.list":          SecurityAdmin,
	"admin.contact.list":            SecurityAdmin,
	"admin.contact.mark_read":       SecurityAdmin,
	"admin.contact.reply":           SecurityAdmin,
	"admin.announcements.create":    SecurityAdmin,
	"admin.announcements.update":    SecurityAdmin,
	"admin.announcements.delete":    SecurityAdmin,
	"admin.meetings.create":         SecurityAdmin,
	"admin.meetings.update":         SecurityAdmin,
	"admin.meetings.delete":         SecurityAdmin,
	"admin.meetings.registrations":  SecurityAdmin,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAdmin
}
