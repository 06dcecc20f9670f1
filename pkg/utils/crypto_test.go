package utils

import (
	"strings"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	key := []byte("0123456789abcdef0123456789abcdef")
	plaintext := `{"access_token":"abc","refresh_token":"def"}`

	encrypted, err := Encrypt([]byte(plaintext), key)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(encrypted, "access_token") {
		t.Fatal("ciphertext leaks plaintext")
	}

	decrypted, err := Decrypt(encrypted, key)
	if err != nil {
		t.Fatal(err)
	}
	if decrypted != plaintext {
		t.Errorf("Decrypt = %q, want %q", decrypted, plaintext)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	t.Parallel()

	encrypted, err := Encrypt([]byte("secret"), []byte("0123456789abcdef0123456789abcdef"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Decrypt(encrypted, []byte("fedcba9876543210fedcba9876543210")); err == nil {
		t.Fatal("expected error decrypting with the wrong key")
	}
}

func TestDecryptGarbage(t *testing.T) {
	t.Parallel()

	if _, err := Decrypt("bm90IGEgY2lwaGVydGV4dA==", []byte("0123456789abcdef0123456789abcdef")); err == nil {
		t.Fatal("expected error for malformed ciphertext")
	}
}
