package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a short message shown to a member, created on quote
// status transitions and vendor assignments.
type Notification struct {
	ID        uuid.UUID
	MemberID  uuid.UUID
	Title     string
	Body      string
	Read      bool
	CreatedAt time.Time
}

func (Notification) TableName() string {
	return "notifications"
}
