package biz

import (
	"errors"
	"fmt"

	"github.com/PerryRichardson/storefront/internal/policy"
)

var (
	ErrInvalidJWT      = errors.New("invalid jwt token")
	ErrInvalidPassword = errors.New("invalid username or password")
	ErrInternal        = errors.New("server internal error, please try again later")

	ErrAuthenticationRequired = errors.New("authentication required")
	ErrRoleNotPermitted       = errors.New("your role does not permit this operation")
	ErrNotOwner               = errors.New("you do not own this resource")
	ErrMissingFieldPermission = errors.New("missing 'can_change_product_price' permission")
	ErrStoreImmutable         = errors.New("the store of an existing product cannot change")
	ErrSelfReview             = errors.New("you cannot review your own product")
	ErrDuplicateReview        = errors.New("you have already reviewed this product")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrUsernameTaken          = errors.New("username is already taken")
)

// InvalidValueError rejects a single field. The validation pipeline collects
// several of these into one multierror so clients see every problem at once.
type InvalidValueError struct {
	Field   string
	Message string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InsufficientStockError aborts a checkout when any line exceeds stock.
type InsufficientStockError struct {
	ProductID int
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d", e.ProductID, e.Requested, e.Available)
}

// denialError translates a policy denial into the matching sentinel.
func denialError(decision policy.Decision) error {
	switch decision.Reason {
	case policy.ReasonAuthenticationRequired:
		return ErrAuthenticationRequired
	case policy.ReasonRoleNotPermitted:
		return ErrRoleNotPermitted
	case policy.ReasonNotOwner:
		return ErrNotOwner
	case policy.ReasonMissingFieldPermission:
		return ErrMissingFieldPermission
	case policy.ReasonStoreImmutable:
		return ErrStoreImmutable
	case policy.ReasonSelfReview:
		return ErrSelfReview
	case policy.ReasonDuplicateReview:
		return ErrDuplicateReview
	default:
		return ErrRoleNotPermitted
	}
}
