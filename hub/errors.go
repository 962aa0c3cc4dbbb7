package hub

import "errors"

var (
	ErrStopped       = errors.New("stopped")
	ErrEmptyEntityID = errors.New("empty entity id")
	ErrNoHandler     = errors.New("no handler")
)
