// Package response defines the JSON envelope every handler returns and the
// mapping from domain error codes to HTTP status codes.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vitesse-mobility/service-rental/internal/domain"
)

// Envelope is the uniform response body.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

// Success writes a 200 with the given payload.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 with the given payload.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// BadRequest writes a 400 with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Error:   message,
		Code:    string(domain.CodeInvalidInput),
	})
}

// Error maps a domain error to its HTTP status. Errors without a domain code
// are treated as internal faults and hide their message from the client.
func Error(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	status, ok := statusFor(code)
	if !ok {
		c.JSON(http.StatusInternalServerError, Envelope{
			Success: false,
			Error:   "internal server error",
		})
		return
	}
	c.JSON(status, Envelope{
		Success: false,
		Error:   err.Error(),
		Code:    string(code),
	})
}

func statusFor(code domain.ErrorCode) (int, bool) {
	switch code {
	case domain.CodeInvalidInput:
		return http.StatusBadRequest, true
	case domain.CodeSlotUnavailable,
		domain.CodeInvalidTransition,
		domain.CodeConflictingUpdate:
		return http.StatusConflict, true
	case domain.CodeRateUnavailable:
		return http.StatusUnprocessableEntity, true
	case domain.CodeNotFound:
		return http.StatusNotFound, true
	case domain.CodeForbidden:
		return http.StatusForbidden, true
	}
	return 0, false
}
