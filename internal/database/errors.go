package database

import (
	"database/sql"
	"errors"

	"github.com/Laptop-Academy1999/store/internal/models"
	"github.com/lib/pq"
)

type ErrorClass int

const (
	ErrorClassPermanent ErrorClass = iota
	ErrorClassTransient
	ErrorClassDeadlock
	ErrorClassSerialization
	ErrorClassConstraint
)

func ClassifyError(err error) ErrorClass {
	if err == nil {
		return ErrorClassPermanent
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "40001":
			return ErrorClassSerialization
		case "40P01":
			return ErrorClassDeadlock
		case "55P03", "57P01", "53300":
			return ErrorClassTransient
		case "23505", "23503", "23502", "23514", "22P02", "22003":
			return ErrorClassConstraint
		}
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrorClassPermanent
	}

	return ErrorClassPermanent
}

func IsRetryable(err error) bool {
	class := ClassifyError(err)
	return class == ErrorClassTransient ||
		class == ErrorClassDeadlock ||
		class == ErrorClassSerialization
}

// Translate converts a driver error into the catalog error taxonomy.
// Constraint violations are the caller's fault and become validation
// errors; everything else is a storage failure.
func Translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if ClassifyError(err) == ErrorClassConstraint && errors.As(err, &pqErr) {
		field := pqErr.Column
		if field == "" {
			field = pqErr.Constraint
		}
		msg := pqErr.Message
		if pqErr.Code == "23503" {
			msg = "referenced record does not exist"
		}
		return &models.ValidationError{Field: field, Message: msg}
	}
	return &models.StorageError{Op: op, Err: err}
}
