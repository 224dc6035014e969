package services

import (
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"social-service/portal-service/apperrors"
	"social-service/portal-service/repositories"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// ParseID converts a hex identifier, reporting a validation error on field
// when it is malformed.
func ParseID(field, hex string) (primitive.ObjectID, error) {
	if hex == "" {
		return primitive.NilObjectID, apperrors.Validation(field+" is required",
			apperrors.FieldError{Field: field, Error: "required"})
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperrors.Validation("invalid "+field,
			apperrors.FieldError{Field: field, Error: "must be a valid id"})
	}
	return id, nil
}

var errMissingAfterDuplicate = errors.New("duplicate key reported but no record found")

func isDuplicate(err error) bool {
	return errors.Is(err, repositories.ErrDuplicateKey)
}

// storeError wraps an unexpected repository failure as an internal error,
// preserving errors that already carry a kind.
func storeError(err error, msg string) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Internal(err, msg)
}
