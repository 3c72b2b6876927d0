package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkamath/quotedesk/internal/model"
	"github.com/mkamath/quotedesk/internal/repository"
	"github.com/mkamath/quotedesk/internal/storage"
	"github.com/mkamath/quotedesk/internal/workbook"
)

type MemberService struct {
	members *repository.MemberRepository
	files   *storage.FileStore
}

func NewMemberService(members *repository.MemberRepository, files *storage.FileStore) *MemberService {
	return &MemberService{members: members, files: files}
}

func (s *MemberService) List(ctx context.Context, role string) ([]model.Member, error) {
	return s.members.List(ctx, role)
}

// ListVendors returns the vendor directory in the wire shape the vendor
// assignment picker consumes.
func (s *MemberService) ListVendors(ctx context.Context) ([]workbook.Member, error) {
	members, err := s.members.List(ctx, string(model.RoleVendor))
	if err != nil {
		return nil, err
	}
	vendors := make([]workbook.Member, 0, len(members))
	for _, member := range members {
		vendors = append(vendors, workbook.Member{
			ID:   member.ID.String(),
			Name: member.Name,
			Role: string(member.Role),
		})
	}
	return vendors, nil
}

func (s *MemberService) GetByID(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	member, err := s.members.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return member, nil
}

type CreateMemberInput struct {
	Name      string
	Email     string
	Phone     string
	Role      model.Role
	Principal model.Principal
}

func (s *MemberService) Create(ctx context.Context, input CreateMemberInput) (*model.Member, error) {
	if !input.Principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	switch input.Role {
	case model.RoleAdmin, model.RoleSales, model.RoleVendor, model.RoleClient:
	default:
		return nil, fmt.Errorf("%w: invalid role %q", ErrInvalidInput, input.Role)
	}
	return s.members.Create(ctx, model.Member{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
		Role:  input.Role,
	})
}

// UpdateAvatar stores the uploaded image and points the member at it.
// Members may only change their own avatar unless they are admins.
func (s *MemberService) UpdateAvatar(ctx context.Context, principal model.Principal, id uuid.UUID, upload workbook.Upload) (string, error) {
	if principal.UserID != id && !principal.IsAdmin() {
		return "", ErrPermissionDenied
	}
	url, err := s.files.Save(upload.Name, upload.Content)
	if err != nil {
		return "", err
	}
	if err := s.members.UpdateAvatar(ctx, id, url); err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", ErrNotFound
		}
		return "", err
	}
	return url, nil
}
