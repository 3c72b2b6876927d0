package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkamath/quotedesk/internal/model"
	"github.com/mkamath/quotedesk/internal/repository"
)

type EnquiryService struct {
	enquiries *repository.EnquiryRepository
	members   *repository.MemberRepository
}

func NewEnquiryService(enquiries *repository.EnquiryRepository, members *repository.MemberRepository) *EnquiryService {
	return &EnquiryService{enquiries: enquiries, members: members}
}

// List returns enquiries visible to the caller. Clients only see their
// own; staff see everything, optionally filtered by status.
func (s *EnquiryService) List(ctx context.Context, principal model.Principal, status string) ([]model.Enquiry, error) {
	var clientID *uuid.UUID
	if principal.IsClient() {
		clientID = &principal.UserID
	}
	return s.enquiries.List(ctx, status, clientID)
}

func (s *EnquiryService) GetByID(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.Enquiry, error) {
	enquiry, err := s.enquiries.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if principal.IsClient() && enquiry.ClientID != principal.UserID {
		return nil, ErrPermissionDenied
	}
	return enquiry, nil
}

type CreateEnquiryInput struct {
	ClientID  uuid.UUID
	Subject   string
	Details   string
	Principal model.Principal
}

func (s *EnquiryService) Create(ctx context.Context, input CreateEnquiryInput) (*model.Enquiry, error) {
	if strings.TrimSpace(input.Subject) == "" {
		return nil, fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}

	clientID := input.ClientID
	if input.Principal.IsClient() {
		clientID = input.Principal.UserID
	} else if clientID == uuid.Nil {
		return nil, fmt.Errorf("%w: client is required", ErrInvalidInput)
	}

	client, err := s.members.GetByID(ctx, clientID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: unknown client", ErrInvalidInput)
		}
		return nil, err
	}

	return s.enquiries.Create(ctx, model.Enquiry{
		ClientID:    client.ID,
		ClientName:  client.Name,
		Subject:     input.Subject,
		Details:     input.Details,
		Status:      model.EnquiryStatusOpen,
		CreatedByID: input.Principal.UserID,
	})
}

func (s *EnquiryService) UpdateStatus(ctx context.Context, principal model.Principal, id uuid.UUID, status model.EnquiryStatus) error {
	if !principal.CanEditQuotes() {
		return ErrPermissionDenied
	}
	switch status {
	case model.EnquiryStatusOpen, model.EnquiryStatusQuoted, model.EnquiryStatusConverted, model.EnquiryStatusClosed:
	default:
		return fmt.Errorf("%w: invalid status %q", ErrInvalidInput, status)
	}
	if err := s.enquiries.UpdateStatus(ctx, id, status); err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}
	return nil
}
