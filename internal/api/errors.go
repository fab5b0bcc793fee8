package api

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/snapcal/backend/internal/service"
)

// ErrorBody is the JSON shape of every API error
type ErrorBody struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Retryable bool   `json:"retryable"`
}

// respondError maps service errors onto HTTP status codes
func respondError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	if status >= http.StatusInternalServerError {
		log.Printf("[API] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, body)
}

func errorResponse(err error) (int, ErrorBody) {
	var analysisErr *service.AnalysisError
	if errors.As(err, &analysisErr) {
		body := ErrorBody{
			Error:     analysisErr.Error(),
			Kind:      string(analysisErr.Kind),
			Retryable: analysisErr.Retryable(),
		}
		switch analysisErr.Kind {
		case service.KindMissingCredential:
			return http.StatusPreconditionFailed, body
		case service.KindUnavailableProvider:
			return http.StatusServiceUnavailable, body
		case service.KindTransportFailure:
			if errors.Is(err, context.DeadlineExceeded) {
				return http.StatusGatewayTimeout, body
			}
			return http.StatusBadGateway, body
		default:
			return http.StatusBadGateway, body
		}
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, ErrorBody{Error: err.Error()}
	case errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrEntryNotFound),
		errors.Is(err, service.ErrDraftNotFound):
		return http.StatusNotFound, ErrorBody{Error: err.Error()}
	default:
		return http.StatusInternalServerError, ErrorBody{Error: "internal server error"}
	}
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Error: err.Error()})
}
