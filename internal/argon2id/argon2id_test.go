package argon2id

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeAndDecodeHash(t *testing.T) {
	encoded, err := EncodeHash("correct horse battery staple", DefaultParams)
	if err != nil {
		t.Fatalf("EncodeHash() error = %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Errorf("encoded hash = %q, want $argon2id$ prefix", encoded)
	}

	params, salt, hash, err := DecodeHash(encoded)
	if err != nil {
		t.Fatalf("DecodeHash() error = %v", err)
	}
	if params.Memory != DefaultMemory {
		t.Errorf("Memory = %d, want %d", params.Memory, DefaultMemory)
	}
	if params.Iterations != DefaultIterations {
		t.Errorf("Iterations = %d, want %d", params.Iterations, DefaultIterations)
	}
	if params.Parallelism != DefaultParallelism {
		t.Errorf("Parallelism = %d, want %d", params.Parallelism, DefaultParallelism)
	}
	if uint32(len(salt)) != DefaultSaltLength {
		t.Errorf("salt length = %d, want %d", len(salt), DefaultSaltLength)
	}
	if uint32(len(hash)) != DefaultKeyLength {
		t.Errorf("hash length = %d, want %d", len(hash), DefaultKeyLength)
	}
}

func TestEncodeHashWithSalt_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")

	first := EncodeHashWithSalt("password", DefaultParams, salt)
	second := EncodeHashWithSalt("password", DefaultParams, salt)
	if first != second {
		t.Error("same password and salt should produce the same encoded hash")
	}

	other := EncodeHashWithSalt("different", DefaultParams, salt)
	if first == other {
		t.Error("different passwords should produce different hashes")
	}
}

func TestComparePasswordAndHash(t *testing.T) {
	encoded, err := EncodeHash("hunter2hunter2", DefaultParams)
	if err != nil {
		t.Fatalf("EncodeHash() error = %v", err)
	}

	match, err := ComparePasswordAndHash("hunter2hunter2", encoded)
	if err != nil {
		t.Fatalf("ComparePasswordAndHash() error = %v", err)
	}
	if !match {
		t.Error("expected correct password to match")
	}

	match, err = ComparePasswordAndHash("wrong password", encoded)
	if err != nil {
		t.Fatalf("ComparePasswordAndHash() error = %v", err)
	}
	if match {
		t.Error("expected wrong password not to match")
	}
}

func TestDecodeHash_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
		wantErr error
	}{
		{
			name:    "not a hash",
			encoded: "plaintext",
			wantErr: ErrInvalidHash,
		},
		{
			name:    "too few sections",
			encoded: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA",
			wantErr: ErrInvalidHash,
		},
		{
			name:    "wrong version",
			encoded: "$argon2id$v=16$m=65536,t=1,p=4$c2FsdA$aGFzaA",
			wantErr: ErrIncompatibleVersion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := DecodeHash(tt.encoded)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("DecodeHash() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestComparePasswordAndHash_MalformedHash(t *testing.T) {
	if _, err := ComparePasswordAndHash("password", "not-an-encoded-hash"); err == nil {
		t.Error("expected an error for a malformed encoded hash")
	}
}
