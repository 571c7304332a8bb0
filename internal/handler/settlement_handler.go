package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/septiandi71/IdeaFund-sub000/internal/ledger"
	"github.com/septiandi71/IdeaFund-sub000/internal/logic"
	"github.com/septiandi71/IdeaFund-sub000/internal/middleware"
	"github.com/septiandi71/IdeaFund-sub000/internal/retry"
	"gorm.io/gorm"
)

// SettlementHandler publication, donation and claim endpoints
type SettlementHandler struct {
	publicationLogic *logic.PublicationLogic
	donationLogic    *logic.DonationLogic
	claimLogic       *logic.ClaimLogic
	campaignAddr     string
}

func NewSettlementHandler(db *gorm.DB, chain ledger.Ledger, poller retry.Poller, campaignAddr string) *SettlementHandler {
	return &SettlementHandler{
		publicationLogic: logic.NewPublicationLogic(db, chain, poller),
		donationLogic:    logic.NewDonationLogic(db, chain),
		claimLogic:       logic.NewClaimLogic(db, chain, poller),
		campaignAddr:     campaignAddr,
	}
}

// Publish submits the campaign and waits for the read-back
func (h *SettlementHandler) Publish(c *gin.Context) {
	id, err := parseProjectID(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid project id")
		return
	}

	project, err := h.publicationLogic.Publish(c.Request.Context(), id, c.GetString(middleware.ContextUserID))
	if err != nil {
		FailFrom(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "project published on chain", project)
}

// Confirm records a wallet-driven publication, idempotent per tx hash
func (h *SettlementHandler) Confirm(c *gin.Context) {
	id, err := parseProjectID(c)
	if err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid project id")
		return
	}

	var req ConfirmPublicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.publicationLogic.Confirm(c.Request.Context(), id,
		c.GetString(middleware.ContextUserID), req.TxHash, req.OnChainID, req.OnChainDeadline)
	if err != nil {
		FailFrom(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "publication confirmed", project)
}

// Allowance reports whether the donor must approve before donating
func (h *SettlementHandler) Allowance(c *gin.Context) {
	var req AllowanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	status, err := h.donationLogic.CheckAllowance(c.Request.Context(), req.Wallet, h.campaignAddr, req.Amount)
	if err != nil {
		FailFrom(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "allowance", status)
}

// RecordDonation books one donation settlement, idempotent per tx hash
func (h *SettlementHandler) RecordDonation(c *gin.Context) {
	var req DonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.donationLogic.Record(c.Request.Context(), logic.DonationInput{
		ProjectID: req.ProjectID,
		Wallet:    req.Wallet,
		Amount:    req.Amount,
		TxHash:    req.TxHash,
	})
	if err != nil {
		FailFrom(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "donation recorded", record)
}

// RecordClaim books the one-time fund withdrawal, idempotent per tx hash
func (h *SettlementHandler) RecordClaim(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.claimLogic.Record(c.Request.Context(), req.ProjectID,
		c.GetString(middleware.ContextUserID), req.TxHash)
	if err != nil {
		FailFrom(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "claim recorded", record)
}
