package repository

import "errors"

// ErrNotFound is returned when no record matches the given identifier.
// Lookups that legitimately return "no row yet", such as the payment for a
// booking that has not started checkout, return (nil, nil) instead.
var ErrNotFound = errors.New("record not found")
