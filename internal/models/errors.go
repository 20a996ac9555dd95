package models

import "errors"

var (
	ErrStorageUnavailable   = errors.New("user record storage unavailable")
	ErrUnknownUser          = errors.New("no record for user")
	ErrInvalidChecklistItem = errors.New("invalid checklist item")
	ErrOutOfRangeWeek       = errors.New("week out of range")
)
