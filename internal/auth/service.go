package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/geracaoeleita/roster-management/internal"
	coreuser "github.com/geracaoeleita/roster-management/internal/core/user"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Service is the main auth service with dependencies
type Service struct {
	userRepo       Repository
	tokenGenerator TokenGenerator
	bcryptCost     int
}

// NewService creates a new auth service
func NewService(userRepo Repository, tokenGen TokenGenerator, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
	}
}

// NewJWTTokenGenerator creates a new JWT token generator
func NewJWTTokenGenerator(secret string, tokenTTL time.Duration) *JWTTokenGenerator {
	if tokenTTL == 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &JWTTokenGenerator{
		Secret:   []byte(secret),
		TokenTTL: tokenTTL,
	}
}

// Login validates credentials and returns a bearer token with the
// public user projection.
func (s *Service) Login(dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByUsername(dto.Username)
	if err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if !user.Active {
		return nil, internal.ErrUserInactive
	}

	token, err := s.tokenGenerator.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, internal.NewInternalError("failed to generate token", err)
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

// CurrentUser resolves a bearer token to a user record. Every request
// re-verifies; resolved identities are never cached. A valid token for
// a since-deleted user fails with not found.
func (s *Service) CurrentUser(tokenString string) (*coreuser.User, error) {
	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, internal.ErrUserNotFound
	}

	return user, nil
}

// RequireAdmin resolves the caller and additionally enforces the admin
// role. The role set is closed: anything other than an explicit admin
// is refused.
func RequireAdmin(user *coreuser.User) error {
	switch user.Role {
	case coreuser.RoleAdmin:
		return nil
	case coreuser.RoleUser:
		return internal.ErrAdminOnly
	default:
		return internal.ErrAdminOnly
	}
}

// GenerateToken creates a signed token embedding user id and role.
func (j *JWTTokenGenerator) GenerateToken(userID string, role coreuser.Role) (string, error) {
	expiresAt := time.Now().Add(j.TokenTTL)

	claims := &Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.Secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrInvalidToken
}

// HashPassword creates a bcrypt hash of the password. The salt is
// embedded in the hash, so two calls never produce the same output.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the stored hash.
func (s *Service) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
