// file: service/credentials_test.go

package service

import (
	"testing"
)

// TestBcryptVerifier_EncodeAndVerify ensures that PIN hashing and verification work correctly.
func TestBcryptVerifier_EncodeAndVerify(t *testing.T) {
	verifier := BcryptVerifier{}
	pin := "4321"

	// 1. Test Encoding
	encoded, err := verifier.Encode(pin)
	if err != nil {
		t.Fatalf("verifier.Encode() returned an unexpected error: %v", err)
	}

	if encoded == pin {
		t.Errorf("Encoded PIN should not be the same as the original PIN.")
	}

	// 2. Test Successful Verification
	match := verifier.Verify(pin, encoded)
	if !match {
		t.Errorf("verifier.Verify() should have returned true for a matching PIN, but got false.")
	}

	// 3. Test Failed Verification
	wrongPin := "9999"
	match = verifier.Verify(wrongPin, encoded)
	if match {
		t.Errorf("verifier.Verify() should have returned false for a non-matching PIN, but got true.")
	}
}

func TestPlainVerifier_EncodeAndVerify(t *testing.T) {
	verifier := PlainVerifier{}
	pin := "1111"

	encoded, err := verifier.Encode(pin)
	if err != nil {
		t.Fatalf("verifier.Encode() returned an unexpected error: %v", err)
	}
	if encoded != pin {
		t.Errorf("PlainVerifier stores the PIN as-is, got %q", encoded)
	}

	if !verifier.Verify("1111", encoded) {
		t.Errorf("verifier.Verify() should have returned true for a matching PIN, but got false.")
	}
	if verifier.Verify("1112", encoded) {
		t.Errorf("verifier.Verify() should have returned false for a non-matching PIN, but got true.")
	}
}

func TestNewVerifier(t *testing.T) {
	if _, ok := NewVerifier("bcrypt").(BcryptVerifier); !ok {
		t.Errorf(`NewVerifier("bcrypt") should return a BcryptVerifier.`)
	}
	if _, ok := NewVerifier("plain").(PlainVerifier); !ok {
		t.Errorf(`NewVerifier("plain") should return a PlainVerifier.`)
	}
	// Unknown schemes fall back to plain equality.
	if _, ok := NewVerifier("").(PlainVerifier); !ok {
		t.Errorf("NewVerifier with an unknown scheme should fall back to PlainVerifier.")
	}
}
