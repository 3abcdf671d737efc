package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 应用层错误：携带 HTTP 状态码与面向用户的消息，
// 内部错误只进日志不出响应
type AppError struct {
	Code    int    `json:"status_code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap 支持 errors.Is / errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode 返回 HTTP 状态码
func (e *AppError) StatusCode() int {
	return e.Code
}

// NewNotFoundError 404
func NewNotFoundError(message string, err error) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: err}
}

// NewValidationError 400
func NewValidationError(message string, err error) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: err}
}

// NewInternalError 500，对外只报通用消息，细节进日志
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: "服务器内部错误",
		Err:     errors.Join(errors.New(message), err),
	}
}

// NewConflictError 409
func NewConflictError(message string, err error) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: err}
}
