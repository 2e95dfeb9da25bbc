package auth

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash equals plaintext")
	}

	if err := VerifyPassword(hash, "correct horse battery"); err != nil {
		t.Errorf("VerifyPassword rejected the right password: %v", err)
	}
	if err := VerifyPassword(hash, "wrong password"); err != ErrPasswordMismatch {
		t.Errorf("VerifyPassword on wrong password = %v, want ErrPasswordMismatch", err)
	}
}

func TestHashPasswordRejectsShort(t *testing.T) {
	if _, err := HashPassword("short"); err != ErrPasswordTooShort {
		t.Errorf("HashPassword(short) = %v, want ErrPasswordTooShort", err)
	}
}

func TestGeneratePassword(t *testing.T) {
	p, err := GeneratePassword(10)
	if err != nil {
		t.Fatalf("GeneratePassword failed: %v", err)
	}
	if len(p) != 10 {
		t.Errorf("length = %d, want 10", len(p))
	}
	for _, r := range p {
		if !strings.ContainsRune(passwordAlphabet, r) {
			t.Errorf("character %q outside alphabet", r)
		}
	}

	// A request below the minimum is padded up, never shortened
	p, err = GeneratePassword(4)
	if err != nil {
		t.Fatal(err)
	}
	if len(p) != MinPasswordLength {
		t.Errorf("length = %d, want %d", len(p), MinPasswordLength)
	}

	// Look-alike characters are excluded from the alphabet
	for _, banned := range "0O1lI" {
		if strings.ContainsRune(passwordAlphabet, banned) {
			t.Errorf("alphabet contains look-alike %q", banned)
		}
	}

	a, _ := GeneratePassword(12)
	b, _ := GeneratePassword(12)
	if a == b {
		t.Error("two generated passwords are identical")
	}
}
