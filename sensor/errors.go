package sensor

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid config")
	ErrInvalidEntityID   = errors.New("invalid entity id")
	ErrInputAbsent       = errors.New("input absent")
	ErrInputParse        = errors.New("input parse error")
	ErrNonFiniteResult   = errors.New("non finite result")
	ErrInterpolantNotSet = errors.New("interpolant not built")
	ErrNoHost            = errors.New("no host")
)
