package service

import (
	"context"

	"seva-booking/internal/domain"
	"seva-booking/internal/repository"
)

// BookingService describes seva booking operations.
type BookingService interface {
	Book(ctx context.Context, email, seva, date string) error
	ListByEmail(ctx context.Context, email string) ([]domain.Booking, error)
}

type bookingService struct {
	bookings repository.BookingRepository
}

func NewBookingService(bookings repository.BookingRepository) BookingService {
	return &bookingService{bookings: bookings}
}

// Book records a booking without checking the account, availability or duplicates.
func (s *bookingService) Book(ctx context.Context, email, seva, date string) error {
	if email == "" || seva == "" || date == "" {
		return &ValidationError{Message: "Missing booking details"}
	}
	if err := s.bookings.Create(ctx, email, seva, date); err != nil {
		return &StoreError{Op: "book", Err: err}
	}
	return nil
}

func (s *bookingService) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	bookings, err := s.bookings.ListByEmail(ctx, email)
	if err != nil {
		return nil, &StoreError{Op: "list bookings", Err: err}
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, nil
}
