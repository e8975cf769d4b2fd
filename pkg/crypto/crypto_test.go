package crypto

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPasswordWithCost("secret1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	if !VerifyPassword(hash, "secret1") {
		t.Fatal("expected password verification to succeed")
	}

	if VerifyPassword(hash, "incorrect") {
		t.Fatal("expected password verification to fail")
	}
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected empty password to be rejected")
	}
}

func TestVerifyPasswordEmptyHash(t *testing.T) {
	if VerifyPassword("", "secret1") {
		t.Fatal("expected verification against empty hash to fail")
	}
}

func TestGenerateToken(t *testing.T) {
	first, err := GenerateToken(32)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	second, err := GenerateToken(32)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	if first == second {
		t.Fatal("expected distinct tokens")
	}
	if len(first) != 43 {
		t.Fatalf("expected 43 encoded characters, got %d", len(first))
	}

	if _, err := GenerateToken(0); err == nil {
		t.Fatal("expected error for non-positive length")
	}
}
