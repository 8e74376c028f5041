package domain

// User represents a registered devotee account.
//
// Password is stored and compared verbatim; it is never included in API responses.
type User struct {
	Fullname string
	Email    string
	Password string
}
