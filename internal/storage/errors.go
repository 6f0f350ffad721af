// ABOUTME: Common storage errors
// ABOUTME: Enables consistent error handling across snapshot backends

package storage

import "errors"

// ErrNotFound is returned when a requested snapshot does not exist.
var ErrNotFound = errors.New("not found")
