package service

import "net/http"

// Error 核心操作的封闭错误集合，自带 HTTP 状态；
// 边界层只做 errors.As + 渲染，未知错误一律 500
type Error struct {
	Status  int
	Message string
	Err     error // 内部原因，仅用于日志/开发模式
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Err }

var (
	ErrDuplicateEmail = &Error{Status: http.StatusConflict, Message: "Email already exists"}

	// 未知邮箱和密码错误返回同一个错误，不泄露账号存在性
	ErrInvalidCredentials = &Error{Status: http.StatusUnauthorized, Message: "Invalid credentials"}

	ErrUnauthorized = &Error{Status: http.StatusUnauthorized, Message: "Unauthorized"}

	ErrInvalidOrExpiredReset = &Error{Status: http.StatusBadRequest, Message: "Invalid or expired reset token"}
)

func internal(msg string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: msg, Err: err}
}
