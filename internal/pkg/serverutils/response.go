package serverutils

// Every endpoint answers with the same message/status envelope.
type Response[T any] struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Data    T      `json:"data,omitempty"`
}

type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type ErrorEnvelope struct {
	Message string        `json:"message"`
	Status  string        `json:"status"`
	Code    int           `json:"code,omitempty"`
	Errors  []ErrorDetail `json:"errors,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Message: message,
		Status:  "success",
		Data:    data,
	}
}

func ErrorResponse(code int, message string) ErrorEnvelope {
	return ErrorEnvelope{
		Message: message,
		Status:  "error",
		Code:    code,
	}
}

func ValidationErrorResponse(details []ErrorDetail) ErrorEnvelope {
	return ErrorEnvelope{
		Message: "Validation error",
		Status:  "error",
		Errors:  details,
	}
}
