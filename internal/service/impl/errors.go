package impl

import "errors"

var (
	ErrEmptyCredential = errors.New("empty credential(s)")
	ErrPasswordLength  = errors.New("password too short")
	ErrInvalidContact  = errors.New("invalid contact")
)
