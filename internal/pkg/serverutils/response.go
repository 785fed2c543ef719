package serverutils

type ApiResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

type ApiError struct {
	Success bool         `json:"success"`
	Error   ApiErrorBody `json:"error"`
}

type ApiErrorBody struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

func SuccessResponse[T any](message string, data T) ApiResponse[T] {
	return ApiResponse[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) ApiError {
	return ApiError{
		Success: false,
		Error: ApiErrorBody{
			Code:    code,
			Message: message,
		},
	}
}

func KindedErrorResponse(code int, kind, message string) ApiError {
	return ApiError{
		Success: false,
		Error: ApiErrorBody{
			Code:    code,
			Kind:    kind,
			Message: message,
		},
	}
}
