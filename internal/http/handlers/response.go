// Package handlers implements the HTTP endpoints of the website builder.
//
// Every failure is written through fail() with a stable code:
//
//	HTTP/1.1 400 Bad Request
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "invalid_user_id",
//	  "error": "invalid user id"
//	}
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"site-builder/internal/http/middleware"
)

// ErrorResponse is the error envelope of every endpoint. RawResponse is only
// set when a model reply could not be parsed.
type ErrorResponse struct {
	RequestID   string `json:"request_id,omitempty"`
	Code        string `json:"code"`
	Error       string `json:"error"`
	RawResponse string `json:"rawResponse,omitempty"`
}

func fail(c *gin.Context, status int, code, msg string) {
	failWith(c, status, ErrorResponse{Code: code, Error: msg})
}

func failWith(c *gin.Context, status int, resp ErrorResponse) {
	resp.RequestID = middleware.RequestIDFrom(c)
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", resp.Code).
			Str("error", resp.Error).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, resp)
}

// Fail is fail() for the router's fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}
