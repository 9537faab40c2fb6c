package utils

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func CreateErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Message: message}
}

func CreateValidationErrorResponse(message string, errs []ValidationError) ErrorResponse {
	return ErrorResponse{
		Message: message,
		Errors:  errs,
	}
}
