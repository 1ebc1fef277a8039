// Package transport defines request and response shapes for saved lists.
package transport

// SaveRequest is the body of POST /api/v1/saved.
type SaveRequest struct {
	AgencyID string `json:"agency_id" validate:"required,uuid"`
}

// SavedAgency is one entry in the user's saved list.
type SavedAgency struct {
	AgencyID    string   `json:"agency_id"`
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Rating      *float64 `json:"rating"`
	ReviewCount int      `json:"review_count"`
	SavedAt     string   `json:"saved_at"`
}

// ListResponse wraps the user's saved list.
type ListResponse struct {
	Data []SavedAgency `json:"data"`
}
