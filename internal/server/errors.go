package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/goliatone/go-authform/pkg/drafts"
	"github.com/goliatone/go-authform/pkg/session"
	"github.com/goliatone/go-authform/pkg/toast"
)

type errorResponse struct {
	Error  string        `json:"error"`
	Toasts []toast.Toast `json:"toasts,omitempty"`
}

// errorCase maps a sentinel error to an HTTP status and message.
type errorCase struct {
	Err     error
	Status  int
	Message string
}

var sessionErrorCases = []errorCase{
	{Err: session.ErrUnknownForm, Status: http.StatusNotFound, Message: "unknown form"},
	{Err: session.ErrUnknownField, Status: http.StatusNotFound, Message: "unknown field"},
	{Err: session.ErrUnknownAction, Status: http.StatusNotFound, Message: "unknown action"},
	{Err: session.ErrNotToggleable, Status: http.StatusBadRequest, Message: "field has no visibility toggle"},
	{Err: session.ErrBusy, Status: http.StatusConflict, Message: "form is already submitting"},
	{Err: drafts.ErrFormIDRequired, Status: http.StatusBadRequest, Message: "form id is required"},
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: message})
}

// respondWithMappedError resolves err against the known cases or falls back
// to a generic 500.
func respondWithMappedError(c *gin.Context, err error) {
	_ = c.Error(err)
	for _, cs := range sessionErrorCases {
		if errors.Is(err, cs.Err) {
			abortWithError(c, cs.Status, cs.Message)
			return
		}
	}
	abortWithError(c, http.StatusInternalServerError, "internal error")
}
