package auth

import (
	"strings"
	"testing"
)

// Cost 4 is the bcrypt minimum; keeps the suite fast.
func testPasswordService() *PasswordService {
	return NewPasswordServiceForTest(4)
}

func TestHashAndVerify(t *testing.T) {
	ps := testPasswordService()

	hash, err := ps.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("Hash() returned the plaintext")
	}

	if err := ps.Verify(hash, "correct horse battery"); err != nil {
		t.Errorf("Verify() with correct password: %v", err)
	}
	if err := ps.Verify(hash, "wrong password"); err == nil {
		t.Error("Verify() accepted a wrong password")
	}
}

func TestHash_SaltsDiffer(t *testing.T) {
	ps := testPasswordService()

	h1, err := ps.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	h2, err := ps.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password are identical, salt missing?")
	}
}

func TestHash_RejectsOverlongPassword(t *testing.T) {
	ps := testPasswordService()

	_, err := ps.Hash(strings.Repeat("a", 73))
	if err == nil {
		t.Error("Hash() should reject passwords longer than 72 bytes")
	}
}

func TestVerify_EmptyHash(t *testing.T) {
	ps := testPasswordService()

	// A user stored without a password hash can never authenticate.
	if err := ps.Verify("", "anything"); err == nil {
		t.Error("Verify() accepted a password against an empty hash")
	}
}
