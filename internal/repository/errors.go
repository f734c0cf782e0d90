// Package repository implements MySQL persistence with hand-written SQL.
// Methods suffixed with Tx run inside a caller-owned transaction; the
// caller commits or rolls back.
package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrNotFound is returned when a lookup or targeted write matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate signals a unique key violation (MySQL 1062).
	ErrDuplicate = errors.New("duplicate entry")
	// ErrConflict signals a foreign key violation (MySQL 1451/1452), for
	// example a payment pointing at a reservation that does not exist.
	ErrConflict = errors.New("conflict")
)

// MySQL server error numbers mapped above.
const (
	mysqlDupEntry        = 1062
	mysqlRowIsReferenced = 1451
	mysqlNoReferencedRow = 1452
)

// mapErr converts driver errors into the package sentinels, keeping the
// original error in the chain.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlDupEntry:
			return fmt.Errorf("%w: %w", ErrDuplicate, err)
		case mysqlRowIsReferenced, mysqlNoReferencedRow:
			return fmt.Errorf("%w: %w", ErrConflict, err)
		}
	}
	return err
}

// affected turns a zero RowsAffected into ErrNotFound.
func affected(res sql.Result, err error) error {
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
