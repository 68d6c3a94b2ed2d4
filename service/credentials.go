package service

import (
	"crypto/subtle"
	"go-atm/logger"

	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier isolates PIN comparison and storage encoding from the
// session and engine logic, so the comparison scheme can change without
// touching either.
type CredentialVerifier interface {
	Verify(supplied, stored string) bool
	Encode(pin string) (string, error)
}

// PlainVerifier compares PINs by equality. The comparison is constant-time
// even though the stored value is plaintext.
type PlainVerifier struct{}

func (PlainVerifier) Verify(supplied, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(stored)) == 1
}

func (PlainVerifier) Encode(pin string) (string, error) {
	return pin, nil
}

// BcryptVerifier stores PINs as bcrypt hashes.
type BcryptVerifier struct{}

func (BcryptVerifier) Verify(supplied, stored string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied))
	return err == nil
}

func (BcryptVerifier) Encode(pin string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pin), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash PIN")
		return "", err
	}
	return string(bytes), nil
}

// NewVerifier selects the verifier for the configured scheme. Anything other
// than "bcrypt" falls back to plain equality.
func NewVerifier(scheme string) CredentialVerifier {
	if scheme == "bcrypt" {
		return BcryptVerifier{}
	}
	return PlainVerifier{}
}
