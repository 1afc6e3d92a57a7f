package biz

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"

	"github.com/PerryRichardson/storefront/internal/log"
	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/storage"
)

// AuthConfig carries the JWT signing secret. An empty secret is replaced by
// a random one at startup, which invalidates tokens across restarts.
type AuthConfig struct {
	SecretKey string        `conf:"secret_key" yaml:"secret_key" json:"secret_key"`
	TokenTTL  time.Duration `conf:"token_ttl" yaml:"token_ttl" json:"token_ttl"`
}

type AuthServiceParams struct {
	fx.In

	Config      AuthConfig
	Store       *storage.Client
	UserService *UserService
}

type AuthService struct {
	*AbstractService

	UserService *UserService

	secretKey string
	tokenTTL  time.Duration
}

func NewAuthService(params AuthServiceParams) (*AuthService, error) {
	secretKey := params.Config.SecretKey
	if secretKey == "" {
		generated, err := GenerateSecretKey()
		if err != nil {
			return nil, err
		}

		log.Warn(context.Background(), "no jwt secret configured, generated an ephemeral one")

		secretKey = generated
	}

	tokenTTL := params.Config.TokenTTL
	if tokenTTL == 0 {
		tokenTTL = 7 * 24 * time.Hour
	}

	return &AuthService{
		AbstractService: &AbstractService{store: params.Store},
		UserService:     params.UserService,
		secretKey:       secretKey,
		tokenTTL:        tokenTTL,
	}, nil
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return hex.EncodeToString(hashedPassword), nil
}

// VerifyPassword verifies a password against a hash.
func VerifyPassword(hashedPassword, password string) error {
	decodedHashedPassword, err := hex.DecodeString(hashedPassword)
	if err != nil {
		return fmt.Errorf("failed to decode hashed password: %w", err)
	}

	return bcrypt.CompareHashAndPassword(decodedHashedPassword, []byte(password))
}

// GenerateSecretKey generates a random secret key for JWT.
func GenerateSecretKey() (string, error) {
	bytes := make([]byte, 32)

	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return hex.EncodeToString(bytes), nil
}

// GenerateJWTToken issues a signed token for the user.
func (s *AuthService) GenerateJWTToken(ctx context.Context, user *objects.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	})

	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	return tokenString, nil
}

// AuthenticateUser checks username and password and returns the user.
func (s *AuthService) AuthenticateUser(ctx context.Context, username, password string) (*objects.User, error) {
	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, ErrInvalidPassword
		}

		log.Error(ctx, "failed to get user", log.Cause(err))

		return nil, ErrInternal
	}

	if err := VerifyPassword(user.Password, password); err != nil {
		return nil, ErrInvalidPassword
	}

	log.Debug(ctx, "user authenticated", log.Int("user_id", user.ID))

	return user, nil
}

// AuthenticateJWTToken validates a token and loads its user.
func (s *AuthService) AuthenticateJWTToken(ctx context.Context, tokenString string) (*objects.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method: %v", ErrInvalidJWT, token.Header["alg"])
		}

		return []byte(s.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse jwt token: %w", ErrInvalidJWT, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid token", ErrInvalidJWT)
	}

	userID, ok := claims["user_id"].(float64)
	if !ok {
		return nil, fmt.Errorf("%w: invalid token claims", ErrInvalidJWT)
	}

	user, err := s.UserService.GetUserByID(ctx, int(userID))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user: %w", ErrInvalidJWT, err)
	}

	return user, nil
}
