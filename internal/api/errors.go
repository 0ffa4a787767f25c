package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is the error envelope returned by the control server.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func newError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

func internalError(message string) *APIError {
	if message == "" {
		message = "internal server error"
	}
	return newError(http.StatusInternalServerError, "internal_error", message)
}

func badRequest(code, message string) *APIError {
	return newError(http.StatusBadRequest, code, message)
}

func notFound(code, message string) *APIError {
	return newError(http.StatusNotFound, code, message)
}

func conflict(code, message string, details any) *APIError {
	err := newError(http.StatusConflict, code, message)
	err.Details = details
	return err
}

func writeError(c *gin.Context, apiErr *APIError) {
	if apiErr == nil {
		apiErr = internalError("")
	}
	body := gin.H{
		"code":    apiErr.Code,
		"message": apiErr.Message,
	}
	if apiErr.Details != nil {
		body["details"] = apiErr.Details
	}
	c.JSON(apiErr.Status, gin.H{"error": body})
}
