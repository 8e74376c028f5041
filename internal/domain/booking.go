package domain

// DateLayout is the calendar-date format bookings are accepted and rendered in.
const DateLayout = "2006-01-02"

// Booking is a reservation of a seva on a given date.
// Email references a User by value only.
//
// Date is rendered in DateLayout when the store holds a real date, otherwise
// it is the text the store returned.
type Booking struct {
	Email string
	Seva  string
	Date  string
}
