package auth

import (
	"context"
	"time"

	coreuser "github.com/geracaoeleita/roster-management/internal/core/user"
	"github.com/golang-jwt/jwt/v5"
)

// TokenGenerator issues and verifies signed bearer tokens. Tokens are
// stateless and not revocable; a client re-authenticates after expiry.
type TokenGenerator interface {
	GenerateToken(userID string, role coreuser.Role) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Repository resolves credentials and identities from the user store.
type Repository interface {
	GetByUsername(username string) (*coreuser.User, error)
	GetByID(id string) (*coreuser.User, error)
}

// AuthService performs authentication-related business logic.
type AuthService interface {
	Login(dto LoginDTO) (*LoginResult, error)
	CurrentUser(tokenString string) (*coreuser.User, error)
}

// LoginResult is the login response payload.
type LoginResult struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	User        *coreuser.User `json:"user"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	Secret   []byte
	TokenTTL time.Duration
}

type userCtxKey string

// ContextUserKey holds the resolved caller identity for the request.
const ContextUserKey userCtxKey = "currentUser"

func UserFromContext(ctx context.Context) (*coreuser.User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*coreuser.User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *coreuser.User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}
