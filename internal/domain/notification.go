package domain

import "time"

type Notification struct {
	ID         int32             `json:"id"`
	UserID     int32             `json:"user_id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes"`
	CreatedOn  time.Time         `json:"created_on"`
}

// Dashboard is the member's home view.
type Dashboard struct {
	User                *User          `json:"user"`
	Access              string         `json:"access"`
	ShareBand           string         `json:"share_band"`
	Application         *Application   `json:"application"`
	PendingPayments     int32          `json:"pending_payments"`
	PendingClaims       int32          `json:"pending_claims"`
	UnreadNotifications int32          `json:"unread_notifications"`
	Announcements       []Announcement `json:"announcements"`
	UpcomingMeetings    []Meeting      `json:"upcoming_meetings"`
}
