package storage

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/PerryRichardson/storefront/internal/objects"
	"github.com/PerryRichardson/storefront/internal/pkg/xtime"
)

const reviewTable = "reviews"

var reviewColumns = []string{"id", "product_id", "user_id", "rating", "comment", "verified", "created_at"}

// CreateReview inserts a review and returns its id. The unique
// (user_id, product_id) constraint backs up the duplicate-review policy at
// the storage level.
func (c *Client) CreateReview(ctx context.Context, review *objects.Review) (int, error) {
	return c.insertID(ctx, c.builder().
		Insert(reviewTable).
		Columns("product_id", "user_id", "rating", "comment", "verified", "created_at").
		Values(review.ProductID, review.UserID, review.Rating, review.Comment, review.Verified, xtime.Now()))
}

// DeleteReview removes a review. Only staff-facing code calls this.
func (c *Client) DeleteReview(ctx context.Context, id int) error {
	query, args := c.builder().
		Delete(reviewTable).
		Where(entsql.EQ("id", id)).
		Query()

	return c.exec(ctx, query, args)
}

// ReviewsByProduct lists a product's reviews, newest first.
func (c *Client) ReviewsByProduct(ctx context.Context, productID int) ([]objects.Review, error) {
	query, args := c.builder().
		Select(reviewColumns...).
		From(entsql.Table(reviewTable)).
		Where(entsql.EQ("product_id", productID)).
		OrderBy(entsql.Desc("created_at")).
		Query()

	var reviews []objects.Review

	err := c.query(ctx, query, args, func(rows *entsql.Rows) error {
		var review objects.Review
		if err := rows.Scan(
			&review.ID, &review.ProductID, &review.UserID,
			&review.Rating, &review.Comment, &review.Verified, &review.CreatedAt,
		); err != nil {
			return err
		}

		reviews = append(reviews, review)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return reviews, nil
}

// ReviewExists reports whether the user already reviewed the product.
func (c *Client) ReviewExists(ctx context.Context, userID, productID int) (bool, error) {
	query, args := c.builder().
		Select("id").
		From(entsql.Table(reviewTable)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.EQ("product_id", productID))).
		Limit(1).
		Query()

	found := false

	err := c.query(ctx, query, args, func(rows *entsql.Rows) error {
		found = true

		var id int

		return rows.Scan(&id)
	})

	return found, err
}
