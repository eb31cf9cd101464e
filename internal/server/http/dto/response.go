package dto

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Error builds an error payload.
func Error(message string) ErrorResponse {
	return ErrorResponse{Success: false, Message: message}
}

// MessageResponse acknowledges an operation without data.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
