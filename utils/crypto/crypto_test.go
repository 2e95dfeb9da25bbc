package crypto

import "testing"

func TestBoxRoundTrip(t *testing.T) {
	box, err := NewBox("test-secret")
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}

	plaintexts := []string{"p4ssw0rd!", "", "short", "a longer password with spaces and symbols #$%"}
	for _, pt := range plaintexts {
		encrypted, err := box.EncryptString(pt)
		if err != nil {
			t.Fatalf("EncryptString(%q) failed: %v", pt, err)
		}
		if encrypted == pt && pt != "" {
			t.Errorf("ciphertext equals plaintext for %q", pt)
		}

		decrypted, err := box.DecryptString(encrypted)
		if err != nil {
			t.Fatalf("DecryptString failed for %q: %v", pt, err)
		}
		if decrypted != pt {
			t.Errorf("round trip = %q, want %q", decrypted, pt)
		}
	}
}

func TestBoxNonceUniqueness(t *testing.T) {
	box, err := NewBox("test-secret")
	if err != nil {
		t.Fatalf("NewBox failed: %v", err)
	}

	a, err := box.EncryptString("same plaintext")
	if err != nil {
		t.Fatal(err)
	}
	b, err := box.EncryptString("same plaintext")
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("encrypting the same plaintext twice produced identical ciphertexts")
	}
}

func TestBoxWrongKey(t *testing.T) {
	box1, _ := NewBox("secret-one")
	box2, _ := NewBox("secret-two")

	encrypted, err := box1.EncryptString("hidden")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := box2.DecryptString(encrypted); err == nil {
		t.Error("decryption with the wrong key succeeded")
	}
}

func TestBoxRejectsGarbage(t *testing.T) {
	box, _ := NewBox("test-secret")

	if _, err := box.DecryptString("not base64 at all!!!"); err == nil {
		t.Error("malformed base64 accepted")
	}
	if _, err := box.DecryptString("c2hvcnQ="); err == nil {
		t.Error("undersized ciphertext accepted")
	}
}

func TestNewBoxRequiresSecret(t *testing.T) {
	if _, err := NewBox(""); err == nil {
		t.Error("empty secret accepted")
	}
}
