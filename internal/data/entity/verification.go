package entity

import "time"

type VerificationPurpose string

const (
	PurposeEmailVerification VerificationPurpose = "EMAIL_VERIFICATION"
	PurposePasswordReset     VerificationPurpose = "PASSWORD_RESET"
)

// VerificationCode is a one-time numeric code bound to an identifier (an
// email address) and a purpose.
type VerificationCode struct {
	BaseSimple
	Identifier string              `db:"identifier"`
	Code       string              `db:"code"`
	Purpose    VerificationPurpose `db:"purpose"`
	ExpiresAt  time.Time           `db:"expires_at"`
}

// Expired reports whether now is past the expiry. There is no grace window.
func (v *VerificationCode) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
