package apperr

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrCancelled  = errors.New("cancelled")
	ErrCorrupt    = errors.New("corrupt")
	ErrNoTimezone = errors.New("no timezone")
)
