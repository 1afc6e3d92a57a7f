package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/server/biz"
	"github.com/PerryRichardson/storefront/internal/storage"
)

// JSONError returns a JSON error response and adds the error to gin context
// for access logging.
func JSONError(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.JSON(status, objects.ErrorResponse{
		Error: objects.Error{
			Type:    http.StatusText(status),
			Message: err.Error(),
		},
	})
}

// RespondError maps a service error onto its HTTP status. Validation
// failures carry every rejected field in the errors list.
func RespondError(c *gin.Context, err error) {
	if invalids := biz.InvalidValues(err); len(invalids) > 0 {
		respondInvalid(c, invalids)
		return
	}

	var stockErr *biz.InsufficientStockError
	if errors.As(err, &stockErr) {
		JSONError(c, http.StatusConflict, stockErr)
		return
	}

	switch {
	case errors.Is(err, biz.ErrAuthenticationRequired), errors.Is(err, biz.ErrInvalidJWT), errors.Is(err, biz.ErrInvalidPassword):
		JSONError(c, http.StatusUnauthorized, err)
	case errors.Is(err, biz.ErrRoleNotPermitted),
		errors.Is(err, biz.ErrNotOwner),
		errors.Is(err, biz.ErrMissingFieldPermission),
		errors.Is(err, biz.ErrSelfReview):
		JSONError(c, http.StatusForbidden, err)
	case errors.Is(err, biz.ErrStoreImmutable):
		JSONError(c, http.StatusUnprocessableEntity, err)
	case errors.Is(err, biz.ErrDuplicateReview),
		errors.Is(err, biz.ErrEmptyCart),
		errors.Is(err, biz.ErrUsernameTaken):
		JSONError(c, http.StatusBadRequest, err)
	case storage.IsNotFound(err):
		JSONError(c, http.StatusNotFound, err)
	default:
		JSONError(c, http.StatusInternalServerError, biz.ErrInternal)
	}
}

func respondInvalid(c *gin.Context, invalids []*biz.InvalidValueError) {
	fieldErrors := make([]objects.Error, 0, len(invalids))
	for _, invalid := range invalids {
		_ = c.Error(invalid)
		fieldErrors = append(fieldErrors, objects.Error{
			Type:    "invalid_value",
			Message: invalid.Message,
			Field:   invalid.Field,
		})
	}

	c.JSON(http.StatusBadRequest, objects.ErrorResponse{
		Error: objects.Error{
			Type:    http.StatusText(http.StatusBadRequest),
			Message: "validation failed",
		},
		Errors: fieldErrors,
	})
}
