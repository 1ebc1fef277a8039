// Package transport defines request and response shapes for bookings.
package transport

// CreateBookingRequest is the body of POST /api/v1/bookings. StartsAt is
// RFC 3339 and must be in the future.
type CreateBookingRequest struct {
	AgencyID string `json:"agency_id" validate:"required,uuid"`
	StartsAt string `json:"starts_at" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Notes    string `json:"notes" validate:"max=2000"`
}

// Booking is the API representation of a stored booking.
type Booking struct {
	ID         string `json:"id"`
	AgencyID   string `json:"agency_id"`
	AgencyName string `json:"agency_name,omitempty"`
	Status     string `json:"status"`
	StartsAt   string `json:"starts_at"`
	Notes      string `json:"notes,omitempty"`
	CreatedAt  string `json:"created_at"`
}

// ListBookingsResponse wraps the user's bookings.
type ListBookingsResponse struct {
	Data []Booking `json:"data"`
}
