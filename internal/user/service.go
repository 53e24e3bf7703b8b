package user

import (
	"errors"
	"log/slog"
	"time"

	"github.com/geracaoeleita/roster-management/internal"
	coreuser "github.com/geracaoeleita/roster-management/internal/core/user"
	"github.com/google/uuid"
)

// PasswordHasher is satisfied by the auth service.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// Service handles user roster business logic
type Service struct {
	repo   Repository
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo Repository, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

// List returns every user, active or not. The password hash is stripped
// by the json projection, not here.
func (s *Service) List() ([]*coreuser.User, error) {
	users, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

func (s *Service) GetByID(id string) (*coreuser.User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}
	return u, nil
}

// Create registers a new user. Username uniqueness is case-sensitive
// and spans inactive users as well.
func (s *Service) Create(dto CreateUserDTO) (*coreuser.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByUsername(dto.Username)
	if err != nil && !errors.Is(err, internal.ErrUserNotFound) {
		s.logger.Error("failed to check username", "username", dto.Username, "error", err)
		return nil, internal.NewInternalError("failed to check username", err)
	}
	if existing != nil {
		return nil, internal.ErrUsernameTaken
	}

	hash, err := s.hasher.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	u := &coreuser.User{
		ID:           uuid.NewString(),
		Username:     dto.Username,
		Name:         dto.Name,
		Email:        dto.Email,
		Role:         coreuser.Role(dto.Role),
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "username", dto.Username, "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", u.ID, "username", u.Username, "role", u.Role)

	return u, nil
}

// Delete removes a user permanently. Schedule assignments and
// notifications referencing the id are left as-is; rendering unknown
// ids is a display concern.
func (s *Service) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}

// EnsureDefaultAdmin creates the bootstrap admin account when no user
// named "admin" exists yet.
func (s *Service) EnsureDefaultAdmin(password string) error {
	existing, err := s.repo.GetByUsername("admin")
	if err != nil && !errors.Is(err, internal.ErrUserNotFound) {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := s.hasher.HashPassword(password)
	if err != nil {
		return err
	}

	admin := &coreuser.User{
		ID:           uuid.NewString(),
		Username:     "admin",
		Name:         "Administrador",
		Email:        "admin@geracaoeleita.com",
		Role:         coreuser.RoleAdmin,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(admin); err != nil {
		return err
	}

	s.logger.Info("default admin user created", "username", admin.Username)
	return nil
}
