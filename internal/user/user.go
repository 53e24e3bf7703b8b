package user

import (
	userDatamodel "github.com/geracaoeleita/roster-management/internal/core/datamodel/user"
	coreuser "github.com/geracaoeleita/roster-management/internal/core/user"
)

// Repository is the data access contract for the user roster.
type Repository interface {
	GetAll() ([]*coreuser.User, error)
	GetByID(id string) (*coreuser.User, error)
	GetByUsername(username string) (*coreuser.User, error)
	Create(u *coreuser.User) error
	// Delete removes the record permanently. Unlike schedules there is
	// no soft-delete for users.
	Delete(id string) error
}

func ToDataModel(u *coreuser.User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		Name:         u.Name,
		Email:        u.Email,
		Role:         string(u.Role),
		PasswordHash: u.PasswordHash,
		IsActive:     u.Active,
		CreatedAt:    u.CreatedAt,
	}
}

func FromDataModel(record *userDatamodel.User) *coreuser.User {
	return &coreuser.User{
		ID:           record.ID,
		Username:     record.Username,
		Name:         record.Name,
		Email:        record.Email,
		Role:         coreuser.Role(record.Role),
		PasswordHash: record.PasswordHash,
		Active:       record.IsActive,
		CreatedAt:    record.CreatedAt,
	}
}

func FromDataModelSlice(records []*userDatamodel.User) []*coreuser.User {
	result := make([]*coreuser.User, len(records))
	for i, record := range records {
		result[i] = FromDataModel(record)
	}
	return result
}
