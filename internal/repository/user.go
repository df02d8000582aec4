package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperr "pharmacy-backend/internal/errors"
	"pharmacy-backend/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, userID uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
	SetActive(ctx context.Context, userID uint, active bool) error
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepoImpl{
		db: db,
	}
}

func (r *userRepoImpl) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return apperr.Wrap(apperr.ErrStorage, "insert user: %v", err)
	}
	return nil
}

func (r *userRepoImpl) FindByID(ctx context.Context, userID uint) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error
	if err != nil {
		return nil, wrapLookupErr(err, "user %d", userID)
	}

	return &user, nil
}

func (r *userRepoImpl) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, wrapLookupErr(err, "user %s", email)
	}

	return &user, nil
}

func (r *userRepoImpl) List(ctx context.Context) ([]*model.User, error) {
	var users []*model.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "list users: %v", err)
	}

	return users, nil
}

func (r *userRepoImpl) SetActive(ctx context.Context, userID uint, active bool) error {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"active":     active,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return apperr.Wrap(apperr.ErrStorage, "update user: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "user %d not found", userID)
	}
	return nil
}
