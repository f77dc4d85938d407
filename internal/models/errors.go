package models

// ValidationError is a user-facing rejection of malformed input. It is
// raised before any external call is attempted and surfaced as a message,
// not a server error.
type ValidationError struct {
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}
