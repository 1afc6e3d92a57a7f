package biz

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/PerryRichardson/storefront/internal/log"
	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/pkg/xcache"
	"github.com/PerryRichardson/storefront/internal/scopes"
	"github.com/PerryRichardson/storefront/internal/storage"
)

type UserServiceParams struct {
	fx.In

	CacheConfig xcache.Config
	Store       *storage.Client
}

type UserService struct {
	*AbstractService

	UserCache xcache.Cache[objects.User]
}

func NewUserService(params UserServiceParams) (*UserService, error) {
	cache, err := xcache.NewFromConfig[objects.User](params.CacheConfig)
	if err != nil {
		return nil, err
	}

	return &UserService{
		AbstractService: &AbstractService{store: params.Store},
		UserCache:       cache,
	}, nil
}

// RegisterInput is what signup accepts. Staff cannot be requested here.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Register creates a user with a hashed password. Vendors get the default
// vendor scope set, the price-change permission included, the way the signup
// flow always granted it.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*objects.User, error) {
	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	taken, err := s.store.UsernameTaken(ctx, input.Username)
	if err != nil {
		log.Error(ctx, "failed to check username", log.Cause(err))
		return nil, ErrInternal
	}

	if taken {
		return nil, ErrUsernameTaken
	}

	hashedPassword, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := &objects.User{
		Username: input.Username,
		Email:    input.Email,
		Password: hashedPassword,
		Roles:    []objects.Role{objects.Role(input.Role)},
	}

	if objects.Role(input.Role) == objects.RoleVendor {
		user.Scopes = scopes.DefaultForVendors()
	}

	id, err := s.store.CreateUser(ctx, user)
	if err != nil {
		log.Error(ctx, "failed to create user", log.Cause(err))
		return nil, ErrInternal
	}

	user.ID = id
	user.Password = ""

	log.Info(ctx, "user registered",
		log.Int("user_id", id),
		log.String("role", input.Role),
	)

	return user, nil
}

// GetUserByID loads a user, serving repeated lookups from the cache. The
// authentication middleware calls this on every request.
func (s *UserService) GetUserByID(ctx context.Context, id int) (*objects.User, error) {
	key := userCacheKey(id)

	if cached, err := s.UserCache.Get(ctx, key); err == nil && cached.ID == id {
		return &cached, nil
	}

	user, err := s.store.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.UserCache.Set(ctx, key, *user); err != nil {
		log.Warn(ctx, "failed to cache user", log.Int("user_id", id), log.Cause(err))
	}

	return user, nil
}

func userCacheKey(id int) string {
	return fmt.Sprintf("user:%d", id)
}
