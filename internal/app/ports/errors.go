package ports

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrClosed   = errors.New("transport closed")
)
