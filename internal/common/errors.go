package common

import "errors"

// ErrorCancelled is returned when the user declines a confirmation prompt.
var ErrorCancelled = errors.New("cancelled")
