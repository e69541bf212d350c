package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cuaderno/internal/assistant"
	"cuaderno/internal/model"
	"cuaderno/internal/repository"
	"cuaderno/internal/service"
	"cuaderno/pkg/pagination"
	"cuaderno/pkg/response"
)

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConfirmationRequired):
		return http.StatusConflict
	case errors.Is(err, service.ErrParcelNotFound),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInvalidDocument),
		errors.Is(err, assistant.ErrEmptyPrompt):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidPasscode):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrAuthDisabled):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotReady), errors.Is(err, assistant.ErrDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, response.Error(status, err.Error()))
}

func writeBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
}

// writeResult answers with the stored item, adding the warning when the
// store did not echo the write back.
func writeResult[T model.Entity](c *gin.Context, status int, res repository.Result[T]) {
	if res.Warning != "" {
		c.JSON(status, response.SuccessWithWarning(status, res.Item, res.Warning))
		return
	}
	c.JSON(status, response.Success(status, res.Item))
}

// writeList returns the whole list, or one page of it when ?page or ?limit
// is present.
func writeList[T any](c *gin.Context, items []T) {
	if !pagination.Requested(c) {
		c.JSON(http.StatusOK, response.Success(http.StatusOK, items))
		return
	}
	p := pagination.Parse(c)
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, pagination.Slice(items, p), p.Page, p.Limit, len(items)))
}

// confirmed reads the ?confirm flag required by cascading deletes.
func confirmed(c *gin.Context) bool {
	switch c.Query("confirm") {
	case "true", "1", "yes":
		return true
	}
	return false
}
