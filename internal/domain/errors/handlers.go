package errors

// ErrorInfo contains detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`              // Business error code, e.g., "SOURCE_UNAVAILABLE"
	Details string `json:"details,omitempty"` // Detailed error information (optional)
}

// Response is the envelope written by the HTTP error handler
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

// Is lets errors.Is match a BaseError (or a copy made by WithDetails) by business code.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}
