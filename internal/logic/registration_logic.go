package logic

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/septiandi71/IdeaFund-sub000/internal/errs"
	"github.com/septiandi71/IdeaFund-sub000/internal/model"
)

// registration attempts expire after this window
const registrationTTL = 10 * time.Minute

// AttemptStore holds in-flight registration attempts. Take removes the
// attempt atomically, which is what makes the terminal transition
// consumed-once under concurrent requests.
type AttemptStore interface {
	Put(ctx context.Context, attempt *model.RegistrationAttempt, ttl time.Duration) error
	Take(ctx context.Context, correlationID string) (*model.RegistrationAttempt, error)
}

// RegistrationLogic explicit state machine for the OTP registration flow.
// OTP delivery itself happens elsewhere; this only owns the states.
type RegistrationLogic struct {
	store AttemptStore
}

// NewRegistrationLogic creates the registration logic
func NewRegistrationLogic(store AttemptStore) *RegistrationLogic {
	return &RegistrationLogic{store: store}
}

// Begin opens an attempt and returns it along with the plain OTP for the
// mail transport
func (r *RegistrationLogic) Begin(ctx context.Context, email, studentID, fullName string) (*model.RegistrationAttempt, string, error) {
	if email == "" || studentID == "" {
		return nil, "", errs.New(errs.KindValidation, "email and student id are required")
	}

	otp, err := generateOTP()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate otp: %w", err)
	}

	now := time.Now()
	attempt := &model.RegistrationAttempt{
		CorrelationID: uuid.NewString(),
		Email:         email,
		StudentID:     studentID,
		FullName:      fullName,
		OTPHash:       hashOTP(otp),
		State:         model.RegistrationStateMenungguOTP,
		CreatedAt:     now,
		ExpiresAt:     now.Add(registrationTTL),
	}

	if err := r.store.Put(ctx, attempt, registrationTTL); err != nil {
		return nil, "", fmt.Errorf("failed to store registration attempt: %w", err)
	}
	return attempt, otp, nil
}

// Verify checks the OTP and advances the attempt to TERVERIFIKASI
func (r *RegistrationLogic) Verify(ctx context.Context, correlationID, otp string) (*model.RegistrationAttempt, error) {
	attempt, err := r.take(ctx, correlationID)
	if err != nil {
		return nil, err
	}
	if attempt.State != model.RegistrationStateMenungguOTP {
		// a replayed verify must not destroy in-flight state; only a
		// successful finalize consumes the attempt
		if err := r.restore(ctx, attempt); err != nil {
			return nil, err
		}
		return nil, errs.Newf(errs.KindValidation, "attempt is %s, not awaiting verification", attempt.State)
	}

	if subtle.ConstantTimeCompare([]byte(hashOTP(otp)), []byte(attempt.OTPHash)) != 1 {
		// put the attempt back so the user can retry until expiry
		if err := r.restore(ctx, attempt); err != nil {
			return nil, err
		}
		return nil, errs.New(errs.KindValidation, "otp does not match")
	}

	attempt.State = model.RegistrationStateTerverifikasi
	if err := r.store.Put(ctx, attempt, time.Until(attempt.ExpiresAt)); err != nil {
		return nil, fmt.Errorf("failed to advance registration attempt: %w", err)
	}
	return attempt, nil
}

// Finalize consumes a verified attempt. The atomic Take means two concurrent
// finalize calls cannot both succeed.
func (r *RegistrationLogic) Finalize(ctx context.Context, correlationID string) (*model.RegistrationAttempt, error) {
	attempt, err := r.take(ctx, correlationID)
	if err != nil {
		return nil, err
	}
	if attempt.State != model.RegistrationStateTerverifikasi {
		// a premature finalize is a rejected request, not a consumed attempt
		if err := r.restore(ctx, attempt); err != nil {
			return nil, err
		}
		return nil, errs.Newf(errs.KindValidation, "attempt is %s, not verified", attempt.State)
	}

	attempt.State = model.RegistrationStateSelesai
	return attempt, nil
}

// restore puts a taken attempt back under its remaining TTL
func (r *RegistrationLogic) restore(ctx context.Context, attempt *model.RegistrationAttempt) error {
	if err := r.store.Put(ctx, attempt, time.Until(attempt.ExpiresAt)); err != nil {
		return fmt.Errorf("failed to restore registration attempt: %w", err)
	}
	return nil
}

func (r *RegistrationLogic) take(ctx context.Context, correlationID string) (*model.RegistrationAttempt, error) {
	if correlationID == "" {
		return nil, errs.New(errs.KindValidation, "correlation id is required")
	}
	attempt, err := r.store.Take(ctx, correlationID)
	if err != nil {
		return nil, fmt.Errorf("failed to load registration attempt: %w", err)
	}
	if attempt == nil || time.Now().After(attempt.ExpiresAt) {
		return nil, errs.New(errs.KindNotFound, "registration attempt expired or does not exist")
	}
	return attempt, nil
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashOTP(otp string) string {
	sum := sha256.Sum256([]byte(otp))
	return hex.EncodeToString(sum[:])
}
