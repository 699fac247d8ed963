package scope

import "errors"

// ErrInvalidToken is returned when a token is invalid, expired, or malformed.
var ErrInvalidToken = errors.New("invalid token")
