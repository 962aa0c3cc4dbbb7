package platform

import "errors"

var (
	ErrDuplicateID       = errors.New("duplicate id")
	ErrDuplicateEntityID = errors.New("duplicate entity id")
	ErrSelfSource        = errors.New("sensor sources itself")
	ErrClosed            = errors.New("closed")
	ErrNoHub             = errors.New("no hub")
	ErrEmptyConfigs      = errors.New("no sensors configured")
)
