package models

import (
	"time"

	"github.com/gin-gonic/gin"
)

type ApiResponse struct {
	Message         string       `json:"message"`
	Data            any          `json:"data,omitempty"`
	Error           bool         `json:"error,omitempty"`
	Failure         *ApiError    `json:"failure,omitempty"`
	Rate            *RateLimiter `json:"rate_limit,omitempty"`
	RequestedEntity string       `json:"requested_entity,omitempty"`
}

type RateLimiter struct {
	Limit          int       `json:"limit"`
	Remaining      int       `json:"remaining"`
	ResetAt        time.Time `json:"reset_at"`
	ResetInSeconds int       `json:"reset_in_seconds"`
}

// helper to fetch rate limiter info from Gin context
func getRateFromContext(c *gin.Context) *RateLimiter {
	if c == nil {
		return nil
	}
	if rate, exists := c.Get("rateLimiter"); exists {
		if rl, ok := rate.(*RateLimiter); ok {
			return rl
		}
	}
	return nil
}

func requestedEntity(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return ""
	}
	return c.Request.Method + " " + c.FullPath()
}

func SuccessResponse(c *gin.Context, message string, data any) ApiResponse {
	return ApiResponse{
		Message:         message,
		Data:            data,
		Rate:            getRateFromContext(c),
		RequestedEntity: requestedEntity(c),
	}
}

// ErrorResponse wraps any error into the envelope. The path of the failing
// storefront request is filled in when the error does not carry one.
func ErrorResponse(c *gin.Context, err error) ApiResponse {
	apiErr := AsApiError(err)
	failure := *apiErr
	if failure.Path == "" && c != nil && c.Request != nil {
		failure.Path = c.Request.URL.Path
	}
	return ApiResponse{
		Message:         failure.Message,
		Error:           true,
		Failure:         &failure,
		Rate:            getRateFromContext(c),
		RequestedEntity: requestedEntity(c),
	}
}

// RespondError writes err with its mapped status.
func RespondError(c *gin.Context, err error) {
	c.JSON(StatusOf(err), ErrorResponse(c, err))
}

// RespondErrorWith writes err and also returns data, for failures that
// still have state worth showing.
func RespondErrorWith(c *gin.Context, err error, data any) {
	resp := ErrorResponse(c, err)
	resp.Data = data
	c.JSON(StatusOf(err), resp)
}
