package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/garchcast/internal/domain/dto"
	"github.com/guttosm/garchcast/internal/logger"
)

// ErrorHandler renders errors attached with c.Error by handlers that did not
// write a response themselves.
//
// Behavior:
//   - Runs after the handler chain.
//   - If nothing was written and the context carries errors, responds 500 with
//     the last error as details.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	last := c.Errors.Last()
	logger.L().Error().Err(last.Err).Str("path", c.Request.URL.Path).Msg("unhandled request error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error", last.Err))
}

// AbortWithError stops the chain and writes a dto.ErrorResponse with status.
//
// Parameters:
//   - c (*gin.Context): The request context.
//   - status (int): HTTP status code.
//   - message (string): Human readable message.
//   - err (error): Optional underlying error, rendered as error_details.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
