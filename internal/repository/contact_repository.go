package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"project-planner/internal/model"
)

// ContactRepository handles CRUD for contacts.
type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) *ContactRepository {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		return fmt.Errorf("create contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) FindOwned(ctx context.Context, ownerID, id uint) (*model.Contact, error) {
	var contact model.Contact
	if err := r.db.WithContext(ctx).Where("owner_id = ? AND id = ?", ownerID, id).
		First(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *ContactRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Contact, error) {
	var contacts []model.Contact
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("name ASC").Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

func (r *ContactRepository) Updates(ctx context.Context, id uint, fields map[string]interface{}) error {
	if err := r.db.WithContext(ctx).Model(&model.Contact{}).Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return nil
}

func (r *ContactRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Contact{}, id).Error; err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return nil
}
