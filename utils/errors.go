package utils

import "errors"

// ErrUserIDNotFound signals a request that reached an authenticated handler
// without an identity in context.
var ErrUserIDNotFound = errors.New("authentication required: user ID not found")
