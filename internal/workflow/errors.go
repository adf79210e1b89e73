// internal/workflow/errors.go
package workflow

import "errors"

// Error taxonomy surfaced by the status engine. Handlers map these with
// errors.Is: ErrNotFound -> 404, ErrInvalidTransition -> 400,
// ErrValidation -> 400, ErrForbidden -> 403.
var (
	ErrNotFound          = errors.New("request not found")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("actor is not permitted to treat this stage")
)
