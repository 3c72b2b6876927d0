package model

import (
	"time"

	"github.com/google/uuid"
)

// Member is a user of the back office: admins, sales staff, vendors and
// client contacts all live in one table distinguished by role.
type Member struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	Role      Role
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Member) TableName() string {
	return "members"
}
