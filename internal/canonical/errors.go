package canonical

import "errors"

var (
	// ErrTooDeep is returned when a value nests more than the allowed number of containers.
	ErrTooDeep = errors.New("json value nested too deeply")
	// ErrDuplicateKey is returned when an object holds the same key more than once.
	ErrDuplicateKey = errors.New("duplicate object key")
	// ErrInvalidNumber is returned for a number literal outside the JSON grammar.
	ErrInvalidNumber = errors.New("invalid json number")
	// ErrTrailingData is returned when input continues after the first JSON value.
	ErrTrailingData = errors.New("unexpected data after json value")
)
