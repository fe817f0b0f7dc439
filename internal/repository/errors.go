package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers.
const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrNoReferencedRow = 1452
)

// Foreign key constraint names from the migrations.
const (
	fkRegistrationsEvent = "fk_registrations_event"
	fkRegistrationsUser  = "fk_registrations_user"
)

func mysqlErrorNumber(err error) uint16 {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number
	}
	return 0
}

// isDuplicateEntryError reports whether err is a unique key violation.
func isDuplicateEntryError(err error) bool {
	return err != nil && mysqlErrorNumber(err) == mysqlErrDuplicateEntry
}

// isForeignKeyError reports whether err is a missing referenced row on insert
// failing the named constraint. MySQL names the constraint in the message.
func isForeignKeyError(err error, constraint string) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) || myErr.Number != mysqlErrNoReferencedRow {
		return false
	}
	return strings.Contains(myErr.Message, "CONSTRAINT `"+constraint+"`")
}
