package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"seva-booking/internal/domain"
	"seva-booking/internal/repository"
)

type BookingRepository struct {
	store *Store
}

func NewBookingRepository(store *Store) repository.BookingRepository {
	return &BookingRepository{store: store}
}

func (r *BookingRepository) Create(ctx context.Context, email, seva, date string) error {
	if _, err := r.store.Exec(ctx, `
INSERT INTO bookings (email, seva, date)
VALUES (?, ?, ?)`,
		email,
		seva,
		date,
	); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

// ListByEmail orders by date only; rows sharing a date come back in whatever
// order the store yields them.
func (r *BookingRepository) ListByEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	rows, err := r.store.Query(ctx, `
SELECT email, seva, date
FROM bookings
WHERE `+r.store.exact("email")+` = ?
ORDER BY date DESC`,
		email,
	)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var (
			booking domain.Booking
			rawDate any
		)
		if err := rows.Scan(&booking.Email, &booking.Seva, &rawDate); err != nil {
			return nil, fmt.Errorf("scan booking: %w", wrap("scan", err))
		}
		booking.Date = renderDate(rawDate)
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", wrap("rows", err))
	}
	return bookings, nil
}

var dateLayouts = []string{
	domain.DateLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

// renderDate normalises the driver's representation of a DATE column.
// sqlite keeps whatever text was inserted; text that is not a date is
// returned unchanged so one bad row cannot break the listing.
func renderDate(v any) string {
	var s string
	switch t := v.(type) {
	case time.Time:
		return t.Format(domain.DateLayout)
	case []byte:
		s = string(t)
	case string:
		s = t
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}

	trimmed := strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, trimmed); err == nil {
			return d.Format(domain.DateLayout)
		}
	}
	return s
}
