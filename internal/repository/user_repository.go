package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"project-planner/internal/model"
)

// UserRepository handles account records.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UsernameOrEmailTaken reports whether another account already holds either
// identifier.
func (r *UserRepository) UsernameOrEmailTaken(ctx context.Context, username, email string) (bool, bool, error) {
	db := r.db.WithContext(ctx)
	var count int64
	if err := db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, false, fmt.Errorf("check username: %w", err)
	}
	usernameTaken := count > 0
	if err := db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, false, fmt.Errorf("check email: %w", err)
	}
	return usernameTaken, count > 0, nil
}

// Disable soft-disables the account; user rows are never hard-deleted.
func (r *UserRepository) Disable(ctx context.Context, id uint, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ? AND disabled_at IS NULL", id).
		Update("disabled_at", at)
	if res.Error != nil {
		return fmt.Errorf("disable user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) SetTelegramChatID(ctx context.Context, id uint, chatID int64) error {
	if err := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("telegram_chat_id", chatID).Error; err != nil {
		return fmt.Errorf("link telegram chat: %w", err)
	}
	return nil
}

// ListNotifiable returns enabled accounts with a linked Telegram chat.
func (r *UserRepository) ListNotifiable(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).
		Where("disabled_at IS NULL AND telegram_chat_id IS NOT NULL").
		Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list notifiable users: %w", err)
	}
	return users, nil
}

// IsNotFound reports whether err means a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
