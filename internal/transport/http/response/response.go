package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-auth-service/internal/service"
)

type Body struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	// 仅开发模式下带内部错误明细
	Error string `json:"error,omitempty"`
}

func OK(c *gin.Context, status int, msg string, data any) {
	c.JSON(status, Body{Success: true, Message: msg, Data: data})
}

// Fail 把核心的封闭错误集合映射到 HTTP 状态；
// 非 *service.Error 的一律包成 500，内部细节不外漏
func Fail(c *gin.Context, err error, dev bool) {
	status := http.StatusInternalServerError
	msg := "Internal Server Error"
	var detail string

	var se *service.Error
	if errors.As(err, &se) {
		status = se.Status
		msg = se.Message
		if dev && se.Err != nil {
			detail = se.Err.Error()
		}
	} else if dev && err != nil {
		detail = err.Error()
	}

	c.AbortWithStatusJSON(status, Body{Success: false, Message: msg, Error: detail})
}

func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Body{Success: false, Message: msg})
}

func Unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, Body{Success: false, Message: msg})
}
