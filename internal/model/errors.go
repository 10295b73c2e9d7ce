package model

import "errors"

// ErrNotFound marks a definitive "no such resource" answer from the backend,
// as opposed to a transport failure.
var ErrNotFound = errors.New("not found")
