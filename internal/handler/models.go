package handler

import (
	"time"
)

// UpdateStatusRequest admin review decision
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ConfirmPublicationRequest owner-side publication confirmation
type ConfirmPublicationRequest struct {
	TxHash          string    `json:"tx_hash" binding:"required"`
	OnChainID       int64     `json:"on_chain_id" binding:"required"`
	OnChainDeadline time.Time `json:"on_chain_deadline" binding:"required"`
}

// AllowanceRequest pre-donation allowance check
type AllowanceRequest struct {
	Wallet string `json:"wallet" binding:"required"`
	Amount int64  `json:"amount" binding:"required,min=1"`
}

// DonationRequest record-donation body
type DonationRequest struct {
	ProjectID uint   `json:"project_id" binding:"required"`
	Wallet    string `json:"wallet" binding:"required"`
	Amount    int64  `json:"amount" binding:"required,min=1"`
	TxHash    string `json:"tx_hash" binding:"required"`
}

// ClaimRequest record-claim body
type ClaimRequest struct {
	ProjectID uint   `json:"project_id" binding:"required"`
	TxHash    string `json:"tx_hash" binding:"required"`
}

// TeamMemberRequest additional team member on project creation
type TeamMemberRequest struct {
	MemberName string `json:"member_name" binding:"required"`
	StudentID  string `json:"student_id" binding:"required"`
	Email      string `json:"email"`
}

// BeginRegistrationRequest opens an OTP registration attempt
type BeginRegistrationRequest struct {
	Email     string `json:"email" binding:"required,email"`
	StudentID string `json:"student_id" binding:"required"`
	FullName  string `json:"full_name"`
}

// VerifyRegistrationRequest OTP verification body
type VerifyRegistrationRequest struct {
	OTP string `json:"otp" binding:"required"`
}
