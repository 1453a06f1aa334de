package repository

import (
	"context"

	"stockwatch/internal/model"

	"gorm.io/gorm"
)

// UserRepository is the user-directory collaborator: it resolves connection
// identities and the full recipient list for bulk email.
type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ListEmails(ctx context.Context) ([]string, error)
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) ListEmails(ctx context.Context) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).Model(&model.User{}).
		Where("active = true AND email <> ''").
		Pluck("email", &emails).Error
	return emails, err
}
