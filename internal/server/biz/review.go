package biz

import (
	"context"

	"go.uber.org/fx"

	"github.com/PerryRichardson/storefront/internal/authz"
	"github.com/PerryRichardson/storefront/internal/log"
	"github.com/PerryRichardson/storefront/internal/notify"
	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/policy"
	"github.com/PerryRichardson/storefront/internal/storage"
)

type ReviewServiceParams struct {
	fx.In

	Store     *storage.Client
	Ownership *OwnershipService
	Notify    *notify.Service
}

type ReviewService struct {
	*AbstractService

	Ownership *OwnershipService
	Notify    *notify.Service
}

func NewReviewService(params ReviewServiceParams) *ReviewService {
	return &ReviewService{
		AbstractService: &AbstractService{store: params.Store},
		Ownership:       params.Ownership,
		Notify:          params.Notify,
	}
}

// ReviewInput is the client-settable part of a review. Verified is computed,
// never accepted from the payload.
type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// CreateReview posts a review on a product. The policy enforces, in order:
// authentication, no self-review (staff included), the buyer role (staff
// exempt), no duplicate per (user, product). Verified is derived from the
// author's purchase history.
func (s *ReviewService) CreateReview(ctx context.Context, productID int, input ReviewInput) (*objects.Review, error) {
	principal := authz.PrincipalFromContext(ctx)

	product, resource, err := s.Ownership.ProductResource(ctx, productID)
	if err != nil {
		return nil, err
	}

	ownerID, _ := resource.OwnerPrincipalID()

	alreadyReviewed := false

	if principal.Authenticated {
		alreadyReviewed, err = s.store.ReviewExists(ctx, principal.ID, productID)
		if err != nil {
			log.Error(ctx, "failed to check existing review", log.Cause(err))
			return nil, ErrInternal
		}
	}

	if decision := policy.CanReview(ctx, principal, ownerID, alreadyReviewed); !decision.Allowed {
		return nil, denialError(decision)
	}

	review := &objects.Review{
		ProductID: productID,
		UserID:    principal.ID,
		Rating:    input.Rating,
		Comment:   input.Comment,
	}

	if err := validateReview(review); err != nil {
		return nil, err
	}

	verified, err := s.store.HasPurchased(ctx, principal.ID, productID)
	if err != nil {
		log.Error(ctx, "failed to check purchase history", log.Cause(err))
		return nil, ErrInternal
	}

	review.Verified = verified

	id, err := s.store.CreateReview(ctx, review)
	if err != nil {
		log.Error(ctx, "failed to create review", log.Cause(err))
		return nil, ErrInternal
	}

	review.ID = id

	log.Info(ctx, "review created",
		log.Int("review_id", id),
		log.Int("product_id", productID),
		log.Bool("verified", verified),
	)

	s.Notify.ReviewPosted(ctx, review, product)

	return review, nil
}

// ReviewsByProduct is a public read, newest first.
func (s *ReviewService) ReviewsByProduct(ctx context.Context, productID int) ([]objects.Review, error) {
	if _, err := s.store.ProductByID(ctx, productID); err != nil {
		return nil, err
	}

	return s.store.ReviewsByProduct(ctx, productID)
}
