package objects

// Error is the wire shape of a single error.
type Error struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// ErrorResponse is the envelope for error replies.
type ErrorResponse struct {
	Error  Error   `json:"error"`
	Errors []Error `json:"errors,omitempty"`
}
