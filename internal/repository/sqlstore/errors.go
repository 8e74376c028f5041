package sqlstore

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"

	"seva-booking/internal/repository"
)

// mysqlDupEntry is ER_DUP_ENTRY.
const mysqlDupEntry = 1062

// Error wraps a driver failure together with the store operation that produced it.
// errors.Is(err, repository.ErrDuplicate) reports uniqueness violations.
type Error struct {
	Op  string
	Err error

	duplicate bool
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return e.duplicate && target == repository.ErrDuplicate
}

func wrap(op string, err error) error {
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Err: err, duplicate: isUniqueViolation(err)}
}

func isUniqueViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == mysqlDupEntry
	}
	// modernc.org/sqlite only exposes numeric result codes; the message is stable.
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
