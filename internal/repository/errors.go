package repository

import "errors"

// ErrNotFound is returned when an identifier matches no row.
var ErrNotFound = errors.New("record not found")
