package objects

import "time"

// Review rating bounds, inclusive.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a buyer's rating of a product. At most one review exists per
// (UserID, ProductID) pair. Verified is computed server-side from the
// author's order history and is never client-settable.
type Review struct {
	ID        int       `json:"id"`
	ProductID int       `json:"product_id"`
	UserID    int       `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}
