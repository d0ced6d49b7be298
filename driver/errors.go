package driver

import (
	"errors"
	"strings"
)

// Predefined errors
var (
	// ErrCorruptDatabase is returned when a database file fails the integrity check
	ErrCorruptDatabase = errors.New("csvsql driver: database file failed the integrity check")

	// ErrBeginTxNotSupported is returned when underlying connection does not support BeginTx
	ErrBeginTxNotSupported = errors.New("csvsql driver: underlying connection does not support BeginTx")

	// ErrPrepareContextNotSupported is returned when underlying connection does not support PrepareContext
	ErrPrepareContextNotSupported = errors.New("csvsql driver: underlying connection does not support PrepareContext")

	// ErrQueryContextNotSupported is returned when underlying connection does not support QueryContext
	ErrQueryContextNotSupported = errors.New("csvsql driver: underlying connection does not support QueryContext")

	// ErrTooManyColumns is returned when a table would exceed MaxColumnCount
	ErrTooManyColumns = errors.New("csvsql driver: too many columns")
)

// IsNoActiveTransaction reports whether err is the engine refusing a COMMIT
// or ROLLBACK because no transaction is open.
func IsNoActiveTransaction(err error) bool {
	return err != nil && strings.Contains(err.Error(), "no transaction is active")
}
