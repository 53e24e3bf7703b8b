package postgres

import (
	"errors"

	"github.com/geracaoeleita/roster-management/internal"
	userDatamodel "github.com/geracaoeleita/roster-management/internal/core/datamodel/user"
	coreuser "github.com/geracaoeleita/roster-management/internal/core/user"
	"github.com/geracaoeleita/roster-management/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements the user.Repository interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetAll() ([]*coreuser.User, error) {
	var records []*userDatamodel.User
	if err := r.db.Find(&records).Error; err != nil {
		return nil, err
	}
	return user.FromDataModelSlice(records), nil
}

func (r *UserRepository) GetByID(id string) (*coreuser.User, error) {
	var record userDatamodel.User
	if err := r.db.Where("id = ?", id).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&record), nil
}

func (r *UserRepository) GetByUsername(username string) (*coreuser.User, error) {
	var record userDatamodel.User
	if err := r.db.Where("username = ?", username).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return user.FromDataModel(&record), nil
}

func (r *UserRepository) Create(u *coreuser.User) error {
	return r.db.Create(user.ToDataModel(u)).Error
}

// Delete is a hard delete; the uniqueness constraint frees the username
// for reuse immediately.
func (r *UserRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&userDatamodel.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}
