// Package apperr carries domain failures from the use cases to the HTTP layer. Each error has a
// Kind, which picks the status, and a Code, which is echoed in the response envelope.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindTooLarge
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTooLarge:
		return "too_large"
	default:
		return "internal"
	}
}

// Response codes.
const (
	CodeValidation             = "VALIDATION_ERROR"
	CodeInvalidFile            = "INVALID_FILE"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeInvalidCredentials     = "INVALID_CREDENTIALS"
	CodeInvalidCurrentPassword = "INVALID_CURRENT_PASSWORD"
	CodeForbidden              = "FORBIDDEN"
	CodeNotFound               = "NOT_FOUND"
	CodePostNotFound           = "POST_NOT_FOUND"
	CodeCommentNotFound        = "COMMENT_NOT_FOUND"
	CodeUserNotFound           = "USER_NOT_FOUND"
	CodeMethodNotAllowed       = "METHOD_NOT_ALLOWED"
	CodeEmailExists            = "EMAIL_ALREADY_EXISTS"
	CodeNicknameExists         = "NICKNAME_ALREADY_EXISTS"
	CodeAlreadyLiked           = "POST_ALREADY_LIKED"
	CodeAlreadyUnliked         = "POST_ALREADY_UNLIKED"
	CodeFileTooLarge           = "FILE_TOO_LARGE"
	CodeTooManyRequests        = "TOO_MANY_REQUESTS"
	CodeInternal               = "INTERNAL_SERVER_ERROR"
)

// FieldError describes one failed rule on one input field.
type FieldError struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

type Error struct {
	Kind   Kind
	Code   string
	Fields map[string][]FieldError
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Code so callers can compare against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(kind Kind, code string) *Error {
	return &Error{Kind: kind, Code: code}
}

func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Err: err}
}

// Validation builds a VALIDATION_ERROR carrying the per-field details.
func Validation(fields map[string][]FieldError) *Error {
	return &Error{Kind: KindValidation, Code: CodeValidation, Fields: fields}
}

// Invalid is a single-field validation failure.
func Invalid(field, typ, message string) *Error {
	return Validation(map[string][]FieldError{
		field: {{Type: typ, Message: message}},
	})
}

// From returns the *Error inside err, or wraps err as an internal error.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

var (
	ErrUnauthorized           = New(KindUnauthorized, CodeUnauthorized)
	ErrInvalidCredentials     = New(KindUnauthorized, CodeInvalidCredentials)
	ErrInvalidCurrentPassword = New(KindUnauthorized, CodeInvalidCurrentPassword)
	ErrForbidden              = New(KindForbidden, CodeForbidden)
	ErrNotFound               = New(KindNotFound, CodeNotFound)
	ErrPostNotFound           = New(KindNotFound, CodePostNotFound)
	ErrCommentNotFound        = New(KindNotFound, CodeCommentNotFound)
	ErrUserNotFound           = New(KindNotFound, CodeUserNotFound)
	ErrEmailExists            = New(KindConflict, CodeEmailExists)
	ErrNicknameExists         = New(KindConflict, CodeNicknameExists)
	ErrAlreadyLiked           = New(KindConflict, CodeAlreadyLiked)
	ErrAlreadyUnliked         = New(KindConflict, CodeAlreadyUnliked)
	ErrInvalidFile            = New(KindValidation, CodeInvalidFile)
	ErrFileTooLarge           = New(KindTooLarge, CodeFileTooLarge)
)
