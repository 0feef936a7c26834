package filter

import "errors"

var (
	ErrEmptySpec      = errors.New("filter has no fields")
	ErrEmptyValues    = errors.New("filter field has no values")
	ErrUnknownField   = errors.New("field does not exist in responses")
	ErrDateTuple      = errors.New("date filter needs exactly [timestamp, mode]")
	ErrBadTimestamp   = errors.New("timestamp must be YYYY-MM-DD HH:MM:SS")
	ErrBadMode        = errors.New("mode must be 'before' or 'after'")
	ErrKindMismatch   = errors.New("saved filter has a different kind")
	ErrNoRepository   = errors.New("saved filters are not configured")
	ErrFilterNotFound = errors.New("saved filter not found")
	ErrFilterExists   = errors.New("saved filter with this name already exists")
	ErrEmptyName      = errors.New("filter name is empty")
	ErrBadName        = errors.New("invalid filter name")
)
