// Package service holds the application logic that sits between the HTTP
// handlers and the repositories.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"socialhub/internal/middleware"
	"socialhub/internal/models"
	"socialhub/internal/observability"
	"socialhub/internal/repository"
	"socialhub/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	TokenIssuer   = "socialhub-api"
	TokenAudience = "socialhub-client"
)

// errInvalidCredentials is shared by every login failure so callers cannot
// tell an unknown username from a wrong password.
func errInvalidCredentials() error {
	return models.NewUnauthorizedError("Invalid credentials")
}

// RevocationStore remembers revoked token ids.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type AuthService struct {
	users       repository.UserRepository
	revocations RevocationStore
	secret      []byte
	ttl         time.Duration
	now         func() time.Time
}

// Credentials is the register and login payload.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is returned by a successful login.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	UserID   uint   `json:"userId"`
}

func NewAuthService(users repository.UserRepository, revocations RevocationStore, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		users:       users,
		revocations: revocations,
		secret:      []byte(secret),
		ttl:         ttl,
		now:         time.Now,
	}
}

// Register creates a user with a bcrypt hash of the password and empty follow sets.
func (s *AuthService) Register(ctx context.Context, in Credentials) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("User already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(fmt.Errorf("failed to hash password: %w", err))
	}

	user := &models.User{
		Username:  in.Username,
		Password:  string(hash),
		Followers: []uint{},
		Following: []uint{},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "user registered", slog.Uint64("user_id", uint64(user.ID)))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, in Credentials) (*Session, error) {
	user, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errInvalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, errInvalidCredentials()
	}

	token, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &Session{Token: token, Username: user.Username, UserID: user.ID}, nil
}

// IssueToken signs a session token for userID.
func (s *AuthService) IssueToken(userID uint) (string, error) {
	if len(s.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := s.now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iss": TokenIssuer,
		"aud": TokenAudience,
		"exp": now.Add(s.ttl).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": generateJTI(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func generateJTI(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.Unix(), uuid.New().String()[:8])
}

// bearerToken extracts the token from an Authorization header value.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", models.NewUnauthorizedError("Authorization required")
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", models.NewUnauthorizedError("Invalid authorization header")
	}
	if parts[1] == "" {
		return "", models.NewUnauthorizedError("Authorization required")
	}
	return parts[1], nil
}

func (s *AuthService) parse(header string) (jwt.MapClaims, error) {
	tokenString, err := bearerToken(header)
	if err != nil {
		return nil, err
	}

	token, err := jwt.Parse(tokenString, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, models.NewUnauthorizedError("Invalid token claims")
	}
	return claims, nil
}

// Verify checks the bearer token in header and returns the user id it carries.
func (s *AuthService) Verify(ctx context.Context, header string) (uint, error) {
	claims, err := s.parse(header)
	if err != nil {
		return 0, err
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return 0, models.NewUnauthorizedError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return 0, models.NewUnauthorizedError("Invalid user ID in token")
	}

	if jti, ok := claims["jti"].(string); ok && jti != "" && s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, jti)
		if err != nil {
			middleware.Logger.WarnContext(ctx, "revocation check failed", slog.String("error", err.Error()))
		} else if revoked {
			return 0, models.NewUnauthorizedError("Token has been revoked")
		}
	}

	return uint(userID), nil
}

// Logout revokes the token in header until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, header string) error {
	claims, err := s.parse(header)
	if err != nil {
		return err
	}
	jti, _ := claims["jti"].(string)
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil || jti == "" || s.revocations == nil {
		return nil
	}

	ttl := exp.Sub(s.now())
	if err := s.revocations.Revoke(ctx, jti, ttl); err != nil {
		return models.NewInternalError(fmt.Errorf("failed to revoke token: %w", err))
	}
	observability.TokensRevoked.Inc()
	return nil
}
