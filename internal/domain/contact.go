package domain

import "time"

type ContactStatus string

const (
	ContactStatusNew     ContactStatus = "new"
	ContactStatusRead    ContactStatus = "read"
	ContactStatusReplied ContactStatus = "replied"
)

type ContactMessage struct {
	ID         int32         `json:"id"`
	UserID     *int32        `json:"user_id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Subject    string        `json:"subject"`
	Message    string        `json:"message"`
	Status     ContactStatus `json:"status"`
	AdminReply string        `json:"admin_reply"`
	RepliedBy  *int32        `json:"replied_by"`
	RepliedOn  *time.Time    `json:"replied_on"`
	CreatedOn  time.Time     `json:"created_on"`
}

func (m *ContactMessage) EntityID() int32 { return m.ID }

func (m *ContactMessage) OwnerID() int32 {
	if m.UserID == nil {
		return 0
	}
	return *m.UserID
}

func (m *ContactMessage) CurrentStatus() string { return string(m.Status) }
