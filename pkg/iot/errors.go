package iot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConstraint = errors.New("constraint violation")
	ErrConflict   = errors.New("illegal state transition")
	ErrForbidden  = errors.New("owned by another user")

	ErrInvalidReference = fmt.Errorf("%w: referenced record does not exist", ErrConstraint)
)

// PublicMessage is the fixed client facing text for a sentinel error, "" when err
// wraps none. Driver text never reaches clients.
func PublicMessage(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "Not found"
	case errors.Is(err, ErrForbidden):
		return "Forbidden"
	case errors.Is(err, ErrInvalidReference):
		return "Referenced device does not exist"
	case errors.Is(err, ErrConstraint):
		return "Record conflicts with existing data"
	case errors.Is(err, ErrConflict):
		return "Command cannot take this status"
	}
	return ""
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// wrapDbError maps driver errors onto the package sentinels, everything else passes
// through with the operation name attached.
func wrapDbError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if isForeignKeyViolation(err) {
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidReference, err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique,
			sqlite3.ErrConstraintPrimaryKey,
			sqlite3.ErrConstraintCheck,
			sqlite3.ErrConstraintNotNull:
			return fmt.Errorf("%s: %w: %w", op, ErrConstraint, err)
		}
	}
	if strings.Contains(err.Error(), "constraint failed") {
		return fmt.Errorf("%s: %w: %w", op, ErrConstraint, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
