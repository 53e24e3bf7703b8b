package postgres

import (
	"github.com/geracaoeleita/roster-management/internal/auth"
	userDatamodel "github.com/geracaoeleita/roster-management/internal/core/datamodel/user"
	coreuser "github.com/geracaoeleita/roster-management/internal/core/user"
	"gorm.io/gorm"
)

// Repository resolves login credentials and token identities against
// the users table. Lookups are case-sensitive exact matches and do not
// filter on the active flag; deactivated accounts are rejected by the
// service so the error can distinguish them.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) auth.Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByUsername(username string) (*coreuser.User, error) {
	var record userDatamodel.User
	if err := r.db.Where("username = ?", username).First(&record).Error; err != nil {
		return nil, err
	}
	return fromDataModel(&record), nil
}

func (r *Repository) GetByID(id string) (*coreuser.User, error) {
	var record userDatamodel.User
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		return nil, err
	}
	return fromDataModel(&record), nil
}

func fromDataModel(record *userDatamodel.User) *coreuser.User {
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
