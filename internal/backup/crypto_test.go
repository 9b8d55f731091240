package backup

import (
	"bytes"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/dukerupert/resistor/internal/model"
)

func TestGenerateSalt(t *testing.T) {
	salt1, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt: %v", err)
	}
	if len(salt1) != saltSize {
		t.Errorf("salt length = %d, want %d", len(salt1), saltSize)
	}

	salt2, err := GenerateSalt()
	if err != nil {
		t.Fatalf("generate salt 2: %v", err)
	}
	if bytes.Equal(salt1, salt2) {
		t.Error("two salts should not be equal")
	}
}

func TestDeriveKeyDeterminism(t *testing.T) {
	salt := []byte("1234567890abcdef")

	key1 := DeriveKey("mypassphrase", salt)
	key2 := DeriveKey("mypassphrase", salt)

	if !bytes.Equal(key1, key2) {
		t.Error("same passphrase+salt should produce same key")
	}
	if len(key1) != keySize {
		t.Errorf("key length = %d, want %d", len(key1), keySize)
	}
	if bytes.Equal(key1, DeriveKey("otherpassphrase", salt)) {
		t.Error("different passphrases should produce different keys")
	}
}

func TestSealOpenRoundTrip(t *testing.T) {
	original := []byte(`{"habits":[],"events":[]}`)

	sealed, err := Seal(original, "test-passphrase-123")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if bytes.Contains(sealed, original) {
		t.Error("sealed data should not contain the plaintext")
	}

	opened, err := Open(sealed, "test-passphrase-123")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if !bytes.Equal(original, opened) {
		t.Error("opened content should match original")
	}
}

func TestOpenWrongPassphrase(t *testing.T) {
	sealed, err := Seal([]byte("secret data"), "correct-password")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if _, err := Open(sealed, "wrong-password"); err == nil {
		t.Fatal("expected error with wrong passphrase")
	}
}

func TestOpenTamperedCiphertext(t *testing.T) {
	sealed, err := Seal([]byte("secret data"), "password")
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	sealed[saltSize+nonceSize+1] ^= 0xFF

	if _, err := Open(sealed, "password"); err == nil {
		t.Fatal("expected error with tampered ciphertext")
	}
}

func TestOpenTooShort(t *testing.T) {
	_, err := Open([]byte("too short"), "password")
	if !errors.Is(err, ErrTooShort) {
		t.Fatalf("err = %v, want ErrTooShort", err)
	}
}

func TestEncryptDecryptJSON(t *testing.T) {
	note := "walked past the bakery"
	in := model.Bundle{
		Habits: []model.Habit{{ID: 1, Name: "Sugar"}},
		Events: []model.Event{{ID: 7, HabitID: 1, Success: true, Note: &note}},
	}

	token, err := EncryptJSON(in, "pw")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := base64.StdEncoding.DecodeString(token); err != nil {
		t.Fatalf("token is not base64: %v", err)
	}

	var out model.Bundle
	if err := DecryptJSON(token, "pw", &out); err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if len(out.Habits) != 1 || out.Habits[0].Name != "Sugar" {
		t.Errorf("habits = %+v", out.Habits)
	}
	if len(out.Events) != 1 || out.Events[0].Note == nil || *out.Events[0].Note != note {
		t.Errorf("events = %+v", out.Events)
	}
}

func TestDecryptJSONBadBase64(t *testing.T) {
	var out model.Bundle
	if err := DecryptJSON("not base64!!", "pw", &out); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}
