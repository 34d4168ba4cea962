package remote

import "errors"

var (
	ErrUnavailable       = errors.New("remote directory unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("not found on remote")
	ErrMalformedResponse = errors.New("malformed remote response")
)
