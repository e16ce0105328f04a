package domain

import "time"

type AnnouncementPriority string

const (
	PriorityLow    AnnouncementPriority = "low"
	PriorityNormal AnnouncementPriority = "normal"
	PriorityHigh   AnnouncementPriority = "high"
)

type Announcement struct {
	ID        int32                `json:"id"`
	Title     string               `json:"title"`
	Content   string               `json:"content"`
	Priority  AnnouncementPriority `json:"priority"`
	CreatedBy int32                `json:"created_by"`
	CreatedOn time.Time            `json:"created_on"`
	UpdatedOn time.Time            `json:"updated_on"`
}

type Meeting struct {
	ID           int32     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	StartsAt     time.Time `json:"starts_at"`
	MaxAttendees int32     `json:"max_attendees"`
	Registered   int32     `json:"registered"`
	CreatedBy    int32     `json:"created_by"`
	CreatedOn    time.Time `json:"created_on"`
}

// IsFull reports whether the meeting has no seats left. Zero capacity means unlimited.
func (m *Meeting) IsFull() bool {
	return m.MaxAttendees > 0 && m.Registered >= m.MaxAttendees
}

type MeetingRegistration struct {
	ID           int32     `json:"id"`
	MeetingID    int32     `json:"meeting_id"`
	UserID       int32     `json:"user_id"`
	RegisteredOn time.Time `json:"registered_on"`
}
