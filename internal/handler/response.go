package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/septiandi71/IdeaFund-sub000/internal/errs"
)

// Response envelope for every endpoint
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Detail  string      `json:"detail,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// SuccessResponse success reply
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse error reply
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
	})
}

// FailFrom maps a classified error to its HTTP shape. Duplicate settlements
// reply 200 so an idempotent caller retrying the same hash sees success, and
// pending confirmations reply 202 with the tx hash to re-confirm with.
func FailFrom(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	switch kind {
	case errs.KindDuplicateSettlement:
		c.JSON(http.StatusOK, Response{
			Success: true,
			Message: err.Error(),
			Detail:  kind.String(),
		})
	case errs.KindPendingConfirmation:
		c.JSON(http.StatusAccepted, Response{
			Success: false,
			Message: err.Error(),
			Detail:  errs.DetailOf(err),
		})
	case errs.KindValidation:
		ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errs.KindNotFound:
		ErrorResponse(c, http.StatusNotFound, err.Error())
	case errs.KindLedgerRejected:
		ErrorResponse(c, http.StatusUnprocessableEntity, err.Error())
	case errs.KindInvariantViolation:
		ErrorResponse(c, http.StatusConflict, err.Error())
	default:
		ErrorResponse(c, http.StatusInternalServerError, err.Error())
	}
}
