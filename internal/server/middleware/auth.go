package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PerryRichardson/storefront/internal/authz"
	"github.com/PerryRichardson/storefront/internal/contexts"
	"github.com/PerryRichardson/storefront/internal/server/biz"
	"github.com/PerryRichardson/storefront/internal/storage"
)

// ExtractBearerToken pulls the token out of the Authorization header.
func ExtractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errors.New("missing Authorization header")
	}

	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", fmt.Errorf("authorization header must be 'Bearer <token>'")
	}

	return strings.TrimSpace(token), nil
}

// WithJWTAuth authenticates the request and binds both the user and the
// resolved principal into the request context. Requests without a valid
// token never reach the handler.
func WithJWTAuth(auth *biz.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := ExtractBearerToken(c.Request)
		if err != nil {
			AbortWithError(c, http.StatusUnauthorized, err)
			return
		}

		user, err := auth.AuthenticateJWTToken(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, biz.ErrInvalidJWT) || storage.IsNotFound(err) {
				AbortWithError(c, http.StatusUnauthorized, biz.ErrInvalidJWT)
			} else {
				AbortWithError(c, http.StatusInternalServerError, biz.ErrInternal)
			}

			return
		}

		ctx := contexts.WithUser(c.Request.Context(), user)
		ctx = authz.NewUserContext(ctx, user)

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
