package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mkamath/quotedesk/internal/model"
)

type MemberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

func (r *MemberRepository) List(ctx context.Context, role string) ([]model.Member, error) {
	query := `
		SELECT id, name, email, phone, role, avatar_url, created_at, updated_at
		FROM members
	`
	var args []interface{}
	if role != "" {
		query += " WHERE role = ?"
		args = append(args, role)
	}
	query += " ORDER BY name ASC"

	var members []model.Member
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *MemberRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Member, error) {
	var member model.Member
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, name, email, phone, role, avatar_url, created_at, updated_at
		FROM members
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&member).Error
	if err != nil {
		return nil, err
	}
	if member.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &member, nil
}

func (r *MemberRepository) Create(ctx context.Context, member model.Member) (*model.Member, error) {
	var saved model.Member
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO members (name, email, phone, role, avatar_url)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, name, email, phone, role, avatar_url, created_at, updated_at
	`,
		member.Name,
		member.Email,
		member.Phone,
		member.Role,
		member.AvatarURL,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *MemberRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error {
	result := r.db.WithContext(ctx).Exec(`
		UPDATE members SET avatar_url = ?, updated_at = NOW() WHERE id = ?
	`, avatarURL, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
