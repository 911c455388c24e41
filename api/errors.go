package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xraph/fareledger"
	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/types"
)

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// statusFor maps an engine error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, fareledger.ErrNotOwner):
		return http.StatusForbidden
	case fareledger.IsRejection(err):
		return http.StatusUnprocessableEntity
	case fareledger.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, fareledger.ErrInvalidInput),
		errors.Is(err, types.ErrInvalidAmount),
		errors.Is(err, account.ErrInvalidAddress):
		return http.StatusBadRequest
	case errors.Is(err, fareledger.ErrNotDeployed),
		errors.Is(err, fareledger.ErrAlreadyDeployed),
		errors.Is(err, fareledger.ErrJournalConflict):
		return http.StatusConflict
	case errors.Is(err, fareledger.ErrStoreNotReady),
		errors.Is(err, fareledger.ErrStoreClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as a JSON error. Internal failures are logged and their
// detail is not echoed to the client.
func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	resp := errorResponse{Error: err.Error(), Reason: fareledger.Reason(err)}
	if status == http.StatusInternalServerError {
		s.logger.Error("request error", "path", c.FullPath(), "error", err)
		resp.Error = "internal error"
	}
	c.AbortWithStatusJSON(status, resp)
}

func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}
