package biz

import (
	"errors"
	"net/mail"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"

	"github.com/PerryRichardson/storefront/internal/objects"
)

// validator collects field rejections so a request with three bad fields
// gets three errors in one response, not one per round trip.
type validator struct {
	merr *multierror.Error
}

func (v *validator) reject(field, message string) {
	v.merr = multierror.Append(v.merr, &InvalidValueError{Field: field, Message: message})
}

func (v *validator) Err() error {
	return v.merr.ErrorOrNil()
}

// InvalidValues unpacks the field errors carried by a validation failure.
// The slice is empty when err is not a validation error.
func InvalidValues(err error) []*InvalidValueError {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		var invalids []*InvalidValueError

		for _, wrapped := range merr.WrappedErrors() {
			var invalid *InvalidValueError
			if errors.As(wrapped, &invalid) {
				invalids = append(invalids, invalid)
			}
		}

		return invalids
	}

	var invalid *InvalidValueError
	if errors.As(err, &invalid) {
		return []*InvalidValueError{invalid}
	}

	return nil
}

// IsValidation reports whether err carries at least one field rejection.
func IsValidation(err error) bool {
	return len(InvalidValues(err)) > 0
}

func validateStore(store *objects.Store) error {
	v := &validator{}

	if strings.TrimSpace(store.Name) == "" {
		v.reject("name", "store name must not be blank")
	}

	return v.Err()
}

func validateProduct(product *objects.Product) error {
	v := &validator{}

	if strings.TrimSpace(product.Name) == "" {
		v.reject("name", "product name must not be blank")
	}

	if product.Price.LessThan(decimal.Zero) {
		v.reject("price", "price must not be negative")
	}

	if product.Stock < 0 {
		v.reject("stock", "stock must not be negative")
	}

	return v.Err()
}

func validateReview(review *objects.Review) error {
	v := &validator{}

	if review.Rating < objects.MinRating || review.Rating > objects.MaxRating {
		v.reject("rating", "rating must be between 1 and 5")
	}

	return v.Err()
}

func validateRegistration(input RegisterInput) error {
	v := &validator{}

	if strings.TrimSpace(input.Username) == "" {
		v.reject("username", "username must not be blank")
	}

	if _, err := mail.ParseAddress(input.Email); err != nil {
		v.reject("email", "email address is invalid")
	}

	if len(input.Password) < 8 {
		v.reject("password", "password must be at least 8 characters")
	}

	switch objects.Role(input.Role) {
	case objects.RoleVendor, objects.RoleBuyer:
	default:
		v.reject("role", "role must be vendor or buyer")
	}

	return v.Err()
}
