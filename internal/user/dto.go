package user

import (
	"github.com/geracaoeleita/roster-management/internal"
	coreuser "github.com/geracaoeleita/roster-management/internal/core/user"
)

// CreateUserDTO represents the request payload for creating a user
type CreateUserDTO struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate validates the CreateUserDTO. An empty role defaults to the
// regular user role; anything outside the closed role set is rejected.
func (dto *CreateUserDTO) Validate() error {
	if dto.Username == "" {
		return internal.NewValidationFieldError("username", "username is required", internal.ErrCodeValidationFailed)
	}
	if dto.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if dto.Email == "" {
		return internal.NewValidationFieldError("email", "email is required", internal.ErrCodeValidationFailed)
	}
	if dto.Password == "" {
		return internal.NewValidationFieldError("password", "password is required", internal.ErrCodeValidationFailed)
	}
	if dto.Role == "" {
		dto.Role = string(coreuser.RoleUser)
	}
	if !coreuser.Role(dto.Role).Valid() {
		return internal.NewValidationFieldError("role", "role must be admin or user", internal.ErrCodeInvalidRole)
	}
	return nil
}
