package utils

import (
	"github.com/gin-gonic/gin"
)

// Machine-readable error codes shared with every client screen.
const (
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeValidation        = "VALIDATION_FAILURE"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInternal          = "INTERNAL"
)

type JSONResponse struct {
	Status  bool        `json:"status"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondJSON(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, JSONResponse{
		Status:  code >= 200 && code < 300,
		Message: message,
		Data:    data,
	})
}

// RespondError writes the structured error envelope. Every endpoint answers
// failures through this single shape so clients never scrape raw text.
func RespondError(c *gin.Context, httpCode int, errCode string, err error) {
	c.JSON(httpCode, JSONResponse{
		Status:  false,
		Code:    errCode,
		Message: err.Error(),
		Data:    nil,
	})
}
