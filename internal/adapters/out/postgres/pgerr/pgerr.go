// Package pgerr classifies PostgreSQL errors and provides the savepoint helper
// the repositories use to keep a transaction alive after a failed statement.
package pgerr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const uniqueViolation = "23505"

// IsUniqueViolation reports a duplicate key, either raw from the driver or
// translated by gorm (TranslateError).
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// ConstraintName returns the violated constraint, when the driver reported one.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// InTransaction reports whether db is bound to an open transaction.
func InTransaction(db *gorm.DB) bool {
	_, ok := db.Statement.ConnPool.(gorm.TxCommitter)
	return ok
}

// Guarded runs fn behind a savepoint when db is inside a transaction. When fn
// fails the transaction is rolled back to the savepoint, so the caller may
// keep using it. Outside a transaction fn runs as is.
func Guarded(db *gorm.DB, name string, fn func(tx *gorm.DB) error) error {
	if !InTransaction(db) {
		return fn(db)
	}
	if err := db.SavePoint(name).Error; err != nil {
		return err
	}
	if err := fn(db); err != nil {
		if rbErr := db.RollbackTo(name).Error; rbErr != nil {
			return fmt.Errorf("%w (rollback to savepoint %s: %v)", err, name, rbErr)
		}
		return err
	}
	return nil
}
