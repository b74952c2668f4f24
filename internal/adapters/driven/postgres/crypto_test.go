package postgres

import (
	"encoding/base64"
	"testing"
)

func TestTokenCipher_RoundTrip(t *testing.T) {
	cipher, err := NewTokenCipher("01234567890123456789012345678901")
	if err != nil {
		t.Fatalf("NewTokenCipher: %v", err)
	}

	original := "ya29.a0AfH6SMBx-access-token"

	sealed, err := cipher.Encrypt(original)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	// Verify envelope format
	blob, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		t.Fatalf("sealed token is not base64: %v", err)
	}
	if len(blob) < 1+nonceSize {
		t.Fatalf("blob too short: %d bytes", len(blob))
	}
	if blob[0] != tokenVersion {
		t.Errorf("version byte: got %d, want %d", blob[0], tokenVersion)
	}

	plain, err := cipher.Decrypt(sealed)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if plain != original {
		t.Errorf("got %q, want %q", plain, original)
	}
}

func TestTokenCipher_EmptySecret(t *testing.T) {
	_, err := NewTokenCipher("")
	if err != ErrEmptyCipherKey {
		t.Errorf("got %v, want ErrEmptyCipherKey", err)
	}
}

func TestTokenCipher_ShortSecretPadded(t *testing.T) {
	// Secrets shorter than 32 bytes are zero-padded rather than rejected
	cipher, err := NewTokenCipher("short-secret")
	if err != nil {
		t.Fatalf("NewTokenCipher: %v", err)
	}

	sealed, err := cipher.Encrypt("token-value")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	plain, err := cipher.Decrypt(sealed)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if plain != "token-value" {
		t.Errorf("got %q, want %q", plain, "token-value")
	}
}

func TestTokenCipher_DecryptInvalidInput(t *testing.T) {
	cipher, _ := NewTokenCipher("01234567890123456789012345678901")

	tests := []struct {
		name   string
		sealed string
	}{
		{"empty", ""},
		{"not base64", "!!not-base64!!"},
		{"too short", base64.StdEncoding.EncodeToString([]byte{0x01, 0x02})},
		{"wrong version", base64.StdEncoding.EncodeToString(append([]byte{0x99}, make([]byte, 100)...))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := cipher.Decrypt(tt.sealed)
			if err == nil {
				t.Error("expected error for invalid input")
			}
		})
	}
}

func TestTokenCipher_WrongKey(t *testing.T) {
	enc1, _ := NewTokenCipher("01234567890123456789012345678901")
	enc2, _ := NewTokenCipher("10987654321098765432109876543210")

	sealed, err := enc1.Encrypt("secret data")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	_, err = enc2.Decrypt(sealed)
	if err != ErrDecryptionFailed {
		t.Errorf("got %v, want ErrDecryptionFailed", err)
	}
}

func TestTokenCipher_UniqueNonce(t *testing.T) {
	cipher, _ := NewTokenCipher("01234567890123456789012345678901")

	nonces := make(map[string]bool)
	for i := 0; i < 10; i++ {
		sealed, err := cipher.Encrypt("same value")
		if err != nil {
			t.Fatalf("Encrypt %d: %v", i, err)
		}
		blob, _ := base64.StdEncoding.DecodeString(sealed)
		nonce := string(blob[1 : 1+nonceSize])
		if nonces[nonce] {
			t.Errorf("duplicate nonce at iteration %d", i)
		}
		nonces[nonce] = true
	}
}

func TestTokenCipher_IsEnvelope(t *testing.T) {
	cipher, _ := NewTokenCipher("01234567890123456789012345678901")

	sealed, err := cipher.Encrypt("some token")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"sealed token", sealed, true},
		{"empty", "", false},
		{"plaintext token", "ya29.a0AfH6SMBx", false},
		{"long plaintext", "1//0fx-very-long-refresh-token-that-would-have-fooled-a-length-heuristic-aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false},
		{"base64 but wrong version", base64.StdEncoding.EncodeToString(append([]byte{0x02}, make([]byte, 100)...)), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cipher.IsEnvelope(tt.value); got != tt.want {
				t.Errorf("IsEnvelope(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
