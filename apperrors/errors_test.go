package apperrors

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "plain error", err: errors.New("boom"), want: KindInternal},
		{name: "not found", err: NotFound("petition not found"), want: KindNotFound},
		{name: "wrapped with fmt", err: fmt.Errorf("approve: %w", StateConflict("not pending")), want: KindStateConflict},
		{name: "wrapped with pkg/errors", err: errors.Wrap(CapacityConflict("full"), "approve"), want: KindCapacityConflict},
		{name: "validation", err: Validation("invalid", FieldError{Field: "studentId", Error: "required"}), want: KindValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestPublicMessageHidesInternalErrors(t *testing.T) {
	err := Internal(errors.New("connection refused"), "failed to fetch petition")
	assert.Equal(t, "internal server error", PublicMessage(err))
	assert.Contains(t, err.Error(), "connection refused")

	assert.Equal(t, "petition not found", PublicMessage(NotFound("petition not found")))
}

func TestInternalNil(t *testing.T) {
	assert.NoError(t, Internal(nil, "noop"))
	assert.NoError(t, Wrap(KindDuplicate, nil, "noop"))
}

func TestFieldsOf(t *testing.T) {
	err := Validation("invalid request", FieldError{Field: "projectId", Error: "this field is required"})
	flds := FieldsOf(fmt.Errorf("enroll: %w", err))
	if assert.Len(t, flds, 1) {
		assert.Equal(t, "projectId", flds[0].Field)
	}
	assert.Nil(t, FieldsOf(errors.New("other")))
}
