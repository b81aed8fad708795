package storage

import "errors"

// ErrNotFound indicates an artifact lookup matched no stored key.
var ErrNotFound = errors.New("artifact not found")
