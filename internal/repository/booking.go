package repository

import (
	"context"

	"seva-booking/internal/domain"
)

// BookingRepository defines persistence operations for Booking entities.
type BookingRepository interface {
	// Create stores a booking. date is passed to the store as given.
	Create(ctx context.Context, email, seva, date string) error
	// ListByEmail returns bookings for email, most recent date first.
	ListByEmail(ctx context.Context, email string) ([]domain.Booking, error)
}
