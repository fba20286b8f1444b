package rce

import "errors"

// 設定エラー
var (
	ErrMissingGridStagger = errors.New("rce: gridstagger must be specified")
	ErrMissingLevels      = errors.New("rce: plev must be specified")
	ErrInvalidGrid        = errors.New("rce: pressure levels must be strictly increasing with at least 2 levels")
	ErrUnknownSolver      = errors.New("rce: unknown solver kind")
	ErrUnknownModel       = errors.New("rce: unknown radiation model")
	ErrModelUnavailable   = errors.New("rce: radiation model is not available in this build")
	ErrMissingModel       = errors.New("rce: radiation model must be specified")
	ErrInvalidOption      = errors.New("rce: invalid option value")
	ErrProfileFormat      = errors.New("rce: malformed profile table")
)

// 整合性違反
var (
	ErrImmutableField = errors.New("rce: field is read-only")
	ErrLengthMismatch = errors.New("rce: length does not match the primary grid")
	ErrUnknownField   = errors.New("rce: unknown field")
)

// FieldError は対象フィールド名付きの整合性違反
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Err.Error() + ": " + e.Field
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
