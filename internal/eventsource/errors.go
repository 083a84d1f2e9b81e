package eventsource

import "errors"

var (
	ErrUnavailable      = errors.New("uwb event service unavailable")
	ErrUnexpectedStatus = errors.New("unexpected status from uwb event service")
	ErrInvalidResponse  = errors.New("invalid response from uwb event service")
)
