package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"

	"vacation-planner/internal/models"
)

type HTTPError struct {
	Error string `json:"error"`
}

func newError(c *gin.Context, status int, msg string) {
	c.JSON(status, HTTPError{Error: msg})
}

// statusFor maps the error kinds of the vacation service to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrBackendWrite):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *server) handleError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.WithError(err).WithField("request-id", requestid.Get(c)).Error("Unexpected error")
		newError(c, status, fmt.Sprintf("An error occurred on the server during your request. The request id is '%v'", requestid.Get(c)))
		return
	}
	newError(c, status, err.Error())
}
