package apperrors

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrScheduleNotFound = errors.New("schedule not found")
	ErrElementNotFound  = errors.New("element not found")
	ErrReadOnly         = errors.New("attribute is read-only")
	ErrTypeMismatch     = errors.New("value does not parse for storage kind")
	ErrUnsupportedKind  = errors.New("storage kind does not support writes")
	ErrPartialFailure   = errors.New("some batch items failed")
	ErrCriticalFailure  = errors.New("batch aborted and rolled back")
)
