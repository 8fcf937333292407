package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"project-planner/internal/model"
	"project-planner/internal/repository"
)

// AccountService manages the owning identities behind programs, projects
// and contacts. Accounts are soft-disabled, never removed, so ownership of
// historic rows stays resolvable.
type AccountService struct {
	db *gorm.DB
}

func NewAccountService(db *gorm.DB) *AccountService {
	return &AccountService{db: db}
}

func (s *AccountService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if username == "" {
		return nil, &model.ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if email == "" {
		return nil, &model.ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if len(password) < 8 {
		return nil, &model.ValidationError{Field: "password", Reason: "must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	var created *model.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		usernameTaken, emailTaken, err := users.UsernameOrEmailTaken(ctx, username, email)
		if err != nil {
			return err
		}
		if usernameTaken {
			return &model.ValidationError{Field: "username", Reason: "already registered"}
		}
		if emailTaken {
			return &model.ValidationError{Field: "email", Reason: "already registered"}
		}

		user := model.User{
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
		}
		if err := users.Create(ctx, &user); err != nil {
			return err
		}
		created = &user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Authenticate returns the account when the password matches and the
// account is not disabled.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := repository.NewUserRepository(s.db).FindByUsername(ctx, username)
	if err != nil {
		return nil, asReferenceErr(err, "user", 0)
	}
	if user.Disabled() {
		return nil, &model.ReferenceError{Entity: "user", ID: user.ID}
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, &model.ValidationError{Field: "password", Reason: "does not match"}
	}
	return user, nil
}

func (s *AccountService) Disable(ctx context.Context, userID uint, at time.Time) error {
	err := repository.NewUserRepository(s.db).Disable(ctx, userID, at)
	return asReferenceErr(err, "user", userID)
}

func (s *AccountService) LinkTelegramChat(ctx context.Context, userID uint, chatID int64) error {
	users := repository.NewUserRepository(s.db)
	if _, err := users.FindByID(ctx, userID); err != nil {
		return asReferenceErr(err, "user", userID)
	}
	return users.SetTelegramChatID(ctx, userID, chatID)
}

// BelongsTo reports whether the entity of the given kind is in ownerID's
// ownership chain. It is the check the other services consume.
func (s *AccountService) BelongsTo(ctx context.Context, kind model.ParentKind, entityID, ownerID uint) bool {
	return resolveParent(ctx, s.db, ownerID, model.ParentRef{Kind: kind, ID: entityID}) == nil
}
