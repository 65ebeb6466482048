package httperr

import (
	"github.com/gin-gonic/gin"
)

// Machine-readable error codes carried in the envelope.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeMissingField   = "MISSING_FIELD"
	CodeInvalidSlot    = "INVALID_SLOT"
	CodeDayNotVisible  = "DAY_NOT_VISIBLE"
	CodeSlotTaken      = "SLOT_TAKEN"
	CodeNotFound       = "NOT_FOUND"
	CodeInternal       = "INTERNAL_ERROR"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

func NewResponse(status int, code, msg string) Response {
	resp := Response{Status: status}
	resp.Error.Code = code
	resp.Error.Message = msg
	return resp
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, code, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := NewResponse(status, code, msg)
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
