package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ApiResponse is the envelope every endpoint answers with.
type ApiResponse[T any] struct {
	Success   bool    `json:"success"`
	Data      *T      `json:"data"`
	ErrorData *Kind   `json:"error_data"`
	Message   *string `json:"message"`
}

// Success writes a 200 envelope around data.
func Success[T any](c *gin.Context, data T) {
	c.JSON(http.StatusOK, ApiResponse[T]{
		Success: true,
		Data:    &data,
	})
}

// Empty writes a 200 envelope with a null payload.
func Empty(c *gin.Context) {
	c.JSON(http.StatusOK, ApiResponse[struct{}]{Success: true})
}

// Error records err on the gin context for the request logger, then writes
// the error envelope and aborts the chain.
func Error(c *gin.Context, err error) {
	appErr := AsError(err)
	_ = c.Error(err)

	message := appErr.Message
	kind := appErr.Kind
	c.AbortWithStatusJSON(kind.Status(), ApiResponse[struct{}]{
		Success:   false,
		ErrorData: &kind,
		Message:   &message,
	})
}
