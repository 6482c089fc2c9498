package models

import "errors"

// Store-level sentinels shared by every repository implementation.
var (
	ErrDuplicate = errors.New("duplicate record")
	ErrNotFound  = errors.New("record not found")
)
