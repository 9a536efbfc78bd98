package utils

import (
	"errors"
	"net/http"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/apperr"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/progression"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  int         `json:"-"`                 // HTTP status code
	Message string      `json:"message,omitempty"` // Optional message
	Error   string      `json:"error,omitempty"`   // Error message
	Code    string      `json:"code,omitempty"`    // Machine readable error kind
	Data    interface{} `json:"data,omitempty"`    // Response data
}

// Success responses
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		Status: http.StatusOK,
		Data:   data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, &Response{
		Status:  http.StatusCreated,
		Message: "Resource created successfully",
		Data:    data,
	})
}

// Error responses
func Unauthorized(c *gin.Context, message string) {
	abort(c, http.StatusUnauthorized, message, apperr.KindUnauthorized)
}

func BadRequest(c *gin.Context, message string) {
	abort(c, http.StatusBadRequest, message, apperr.KindValidation)
}

func NotFound(c *gin.Context, message string) {
	abort(c, http.StatusNotFound, message, apperr.KindNotFound)
}

func InternalError(c *gin.Context, message string) {
	abort(c, http.StatusInternalServerError, message, "")
}

func Conflict(c *gin.Context, message string) {
	abort(c, http.StatusConflict, message, apperr.KindConflict)
}

func Forbidden(c *gin.Context, message string) {
	abort(c, http.StatusForbidden, message, "")
}

func UnprocessableEntity(c *gin.Context, message string) {
	abort(c, http.StatusUnprocessableEntity, message, apperr.KindValidation)
}

func ServiceUnavailable(c *gin.Context, message string) {
	abort(c, http.StatusServiceUnavailable, message, apperr.KindUnavailable)
}

func abort(c *gin.Context, status int, message string, kind apperr.Kind) {
	c.AbortWithStatusJSON(status, &Response{
		Status: status,
		Error:  message,
		Code:   string(kind),
	})
}

// RespondError maps a service error onto the response envelope.
func RespondError(c *gin.Context, err error) {
	_ = c.Error(err)

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		if errors.Is(err, progression.ErrTaskLocked) {
			UnprocessableEntity(c, "Task is locked until the previous task is completed")
			return
		}
		BadRequest(c, err.Error())
	case apperr.KindNotFound:
		NotFound(c, err.Error())
	case apperr.KindConflict:
		Conflict(c, "The record was changed concurrently, please retry")
	case apperr.KindAccountExists:
		abort(c, http.StatusConflict, "An account with this email already exists", apperr.KindAccountExists)
	case apperr.KindInvalidCredentials:
		abort(c, http.StatusUnauthorized, "Invalid email or password", apperr.KindInvalidCredentials)
	case apperr.KindUnauthorized:
		Unauthorized(c, "Missing or invalid token")
	case apperr.KindUnavailable:
		ServiceUnavailable(c, "Service temporarily unavailable, please try again")
	default:
		InternalError(c, "Internal server error")
	}
}
