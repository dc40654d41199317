package models

// ImageURLRequest is the body accepted by the classify-url endpoint.
type ImageURLRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// ErrorDetail carries the message and HTTP-style code inside a failure envelope.
type ErrorDetail struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// ErrorResponse is the failure envelope produced at the transport boundary.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// SuccessResponse wraps a classification result for the transport boundary.
type SuccessResponse struct {
	Success bool    `json:"success"`
	Data    *Result `json:"data"`
}

// NewErrorResponse builds a failure envelope.
func NewErrorResponse(message string, code int) ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   ErrorDetail{Message: message, Code: code},
	}
}

// NewSuccessResponse builds a success envelope around a result.
func NewSuccessResponse(result *Result) SuccessResponse {
	return SuccessResponse{Success: true, Data: result}
}
