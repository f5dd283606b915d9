package apperr

import (
	"errors"
	"fmt"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	wrapped := fmt.Errorf("load post: %w", ErrPostNotFound)
	got := From(wrapped)
	assert.Equal(t, KindNotFound, got.Kind)
	assert.Equal(t, CodePostNotFound, got.Code)

	cause := errors.New("connection reset")
	got = From(pkgerrors.Wrap(cause, "query"))
	assert.Equal(t, KindInternal, got.Kind)
	assert.Equal(t, CodeInternal, got.Code)
	assert.ErrorIs(t, got, cause)
}

func TestError_IsComparesCode(t *testing.T) {
	err := New(KindConflict, CodeEmailExists)
	assert.ErrorIs(t, err, ErrEmailExists)
	assert.NotErrorIs(t, err, ErrNicknameExists)
	assert.ErrorIs(t, fmt.Errorf("signup: %w", err), ErrEmailExists)
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "FORBIDDEN", ErrForbidden.Error())
	assert.Equal(t, "INTERNAL_SERVER_ERROR: boom", Internal(errors.New("boom")).Error())
}

func TestInvalid(t *testing.T) {
	err := Invalid("page", "greater_than", "page must be greater than 0")
	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, CodeValidation, err.Code)
	assert.Len(t, err.Fields["page"], 1)
	assert.Equal(t, "greater_than", err.Fields["page"][0].Type)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "internal", Kind(99).String())
}
