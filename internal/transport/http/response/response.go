package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Business codes carried in the envelope next to the HTTP status.
const (
	CodeOK                 = 0
	CodeBadRequest         = 40000
	CodeUnauthorized       = 40100
	CodeInvalidCredentials = 40101
	CodeForbidden          = 40300
	CodeNotFound           = 40400
	CodeConflict           = 40900
	CodeInternalServer     = 50000
)

type APIResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func OK(c *gin.Context, data any) {
	write(c, http.StatusOK, CodeOK, "ok", data)
}

func Created(c *gin.Context, data any) {
	write(c, http.StatusCreated, CodeOK, "created", data)
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	write(c, httpStatus, code, message, nil)
}

// Abort writes the error and stops the handler chain.
func Abort(c *gin.Context, httpStatus, code int, message string) {
	Error(c, httpStatus, code, message)
	c.Abort()
}

func write(c *gin.Context, httpStatus, code int, message string, data any) {
	c.JSON(httpStatus, APIResponse{Code: code, Message: message, Data: data})
}
