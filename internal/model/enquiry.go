package model

import (
	"time"

	"github.com/google/uuid"
)

type EnquiryStatus string

const (
	EnquiryStatusOpen      EnquiryStatus = "OPEN"
	EnquiryStatusQuoted    EnquiryStatus = "QUOTED"
	EnquiryStatusConverted EnquiryStatus = "CONVERTED"
	EnquiryStatusClosed    EnquiryStatus = "CLOSED"
)

// Enquiry is one client request that quote versions hang off.
type Enquiry struct {
	ID          uuid.UUID
	ClientID    uuid.UUID
	ClientName  string
	Subject     string
	Details     string
	Status      EnquiryStatus
	CreatedByID uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Enquiry) TableName() string {
	return "enquiries"
}
