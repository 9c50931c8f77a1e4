package crypt_test

import (
	"testing"

	"github.com/shashiranjanraj/lastbite/pkg/crypt"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plain := "4242424242424242"

	encoded, err := crypt.Encrypt(plain)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if encoded == plain {
		t.Fatal("ciphertext equals plaintext")
	}

	decoded, err := crypt.Decrypt(encoded)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if decoded != plain {
		t.Errorf("got %q, want %q", decoded, plain)
	}
}

func TestEncryptIsNonDeterministic(t *testing.T) {
	a, _ := crypt.Encrypt("same input")
	b, _ := crypt.Encrypt("same input")
	if a == b {
		t.Error("two encryptions produced identical ciphertext")
	}
}

func TestDecryptRejectsTampered(t *testing.T) {
	if _, err := crypt.Decrypt("bm90LXZhbGlk"); err == nil {
		t.Error("expected error for tampered ciphertext")
	}
}
