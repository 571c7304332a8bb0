package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/septiandi71/IdeaFund-sub000/internal/logic"
)

// RegistrationHandler OTP registration state machine endpoints. The OTP mail
// itself is sent by the notification side, outside this service.
type RegistrationHandler struct {
	registrationLogic *logic.RegistrationLogic
}

func NewRegistrationHandler(store logic.AttemptStore) *RegistrationHandler {
	return &RegistrationHandler{
		registrationLogic: logic.NewRegistrationLogic(store),
	}
}

// Begin opens an attempt and hands the OTP to the mail pipeline
func (h *RegistrationHandler) Begin(c *gin.Context) {
	var req BeginRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	attempt, _, err := h.registrationLogic.Begin(c.Request.Context(), req.Email, req.StudentID, req.FullName)
	if err != nil {
		FailFrom(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "otp sent", gin.H{
		"correlation_id": attempt.CorrelationID,
		"expires_at":     attempt.ExpiresAt,
	})
}

// Verify checks the OTP
func (h *RegistrationHandler) Verify(c *gin.Context) {
	var req VerifyRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	attempt, err := h.registrationLogic.Verify(c.Request.Context(), c.Param("id"), req.OTP)
	if err != nil {
		FailFrom(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "otp verified", gin.H{
		"correlation_id": attempt.CorrelationID,
		"state":          attempt.State,
	})
}

// Finalize consumes a verified attempt
func (h *RegistrationHandler) Finalize(c *gin.Context) {
	attempt, err := h.registrationLogic.Finalize(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailFrom(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "registration complete", gin.H{
		"correlation_id": attempt.CorrelationID,
		"email":          attempt.Email,
		"student_id":     attempt.StudentID,
		"state":          attempt.State,
	})
}
