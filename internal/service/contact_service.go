package service

import (
	"context"

	"gorm.io/gorm"

	"project-planner/internal/model"
	"project-planner/internal/repository"
)

// ContactInput carries the writable fields of a contact.
type ContactInput struct {
	Name  string
	Email string
	Phone string
	Role  string
	Notes string
}

// ContactService manages the people referenced by assignments.
type ContactService struct {
	db *gorm.DB
}

func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{db: db}
}

func (s *ContactService) CreateContact(ctx context.Context, ownerID uint, in ContactInput) (*model.Contact, error) {
	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	contact := model.Contact{
		OwnerID: ownerID,
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Role:    in.Role,
		Notes:   in.Notes,
	}
	if err := repository.NewContactRepository(s.db).Create(ctx, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

func (s *ContactService) UpdateContact(ctx context.Context, ownerID, contactID uint, in ContactInput) (*model.Contact, error) {
	if err := validateName(in.Name); err != nil {
		return nil, err
	}

	var updated *model.Contact
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contacts := repository.NewContactRepository(tx)
		contact, err := contacts.FindOwned(ctx, ownerID, contactID)
		if err != nil {
			return asReferenceErr(err, "contact", contactID)
		}
		if err := contacts.Updates(ctx, contactID, map[string]interface{}{
			"name":  in.Name,
			"email": in.Email,
			"phone": in.Phone,
			"role":  in.Role,
			"notes": in.Notes,
		}); err != nil {
			return err
		}
		contact.Name = in.Name
		contact.Email = in.Email
		contact.Phone = in.Phone
		contact.Role = in.Role
		contact.Notes = in.Notes
		updated = contact
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ContactService) GetContact(ctx context.Context, ownerID, contactID uint) (*model.Contact, error) {
	contact, err := repository.NewContactRepository(s.db).FindOwned(ctx, ownerID, contactID)
	if err != nil {
		return nil, asReferenceErr(err, "contact", contactID)
	}
	return contact, nil
}

func (s *ContactService) ListContacts(ctx context.Context, ownerID uint) ([]model.Contact, error) {
	return repository.NewContactRepository(s.db).ListByOwner(ctx, ownerID)
}

// DeleteContact refuses to delete a contact that assignments still point at
// unless removeAssignments is set, in which case those assignments go in the
// same transaction.
func (s *ContactService) DeleteContact(ctx context.Context, ownerID, contactID uint, removeAssignments bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		contacts := repository.NewContactRepository(tx)
		if _, err := contacts.FindOwned(ctx, ownerID, contactID); err != nil {
			return asReferenceErr(err, "contact", contactID)
		}

		assignments := repository.NewAssignmentRepository(tx)
		count, err := assignments.CountByContact(ctx, contactID)
		if err != nil {
			return err
		}
		if count > 0 {
			if !removeAssignments {
				return &model.ReferencedEntityError{Entity: "contact", ID: contactID, Dependents: count}
			}
			if err := assignments.DeleteByContact(ctx, contactID); err != nil {
				return err
			}
		}
		return contacts.Delete(ctx, contactID)
	})
}
