package errs

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrRecordNotFound     = errors.New("record not found")
	ErrUnknownAction      = errors.New("unknown action")
	ErrAllEndpointsFailed = errors.New("all status endpoints failed")
)
