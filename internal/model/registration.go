package model

import (
	"time"
)

// RegistrationAttempt short-lived record for the OTP registration flow,
// keyed by a correlation id and stored with an expiry. The only legal
// transitions are MENUNGGU_OTP -> TERVERIFIKASI -> SELESAI, and SELESAI
// consumes the attempt.
type RegistrationAttempt struct {
	CorrelationID string            `json:"correlation_id"`
	Email         string            `json:"email"`
	StudentID     string            `json:"student_id"`
	FullName      string            `json:"full_name"`
	OTPHash       string            `json:"otp_hash"`
	State         RegistrationState `json:"state"`
	CreatedAt     time.Time         `json:"created_at"`
	ExpiresAt     time.Time         `json:"expires_at"`
}

// RegistrationState registration attempt state
type RegistrationState string

const (
	RegistrationStateMenungguOTP   RegistrationState = "MENUNGGU_OTP"  // OTP issued, awaiting verification
	RegistrationStateTerverifikasi RegistrationState = "TERVERIFIKASI" // OTP accepted, awaiting finalize
	RegistrationStateSelesai       RegistrationState = "SELESAI"       // consumed, terminal
)
