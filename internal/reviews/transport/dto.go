// Package transport defines request and response shapes for reviews.
package transport

// CreateReviewRequest is the body of POST /api/v1/agencies/:id/reviews.
type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

// Review is the API representation of a stored review.
type Review struct {
	ID        string `json:"id"`
	AgencyID  string `json:"agency_id"`
	UserID    string `json:"user_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

// ListReviewsResponse wraps an agency's reviews with its aggregate.
type ListReviewsResponse struct {
	Data        []Review `json:"data"`
	Average     *float64 `json:"average"`
	ReviewCount int      `json:"review_count"`
}
