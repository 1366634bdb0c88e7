package auth

import (
	"strings"
	"team-chat/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "MyPassw0rdIsSafe!"

	hash, err := HashPassword(password)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	// Wrong password is a mismatch, not an error
	match, err = ComparePassword("WrongPassword", hash)
	req.NoError(err)
	req.False(match)

	_, err = ComparePassword(password, "not-a-hash")
	req.ErrorIs(err, errors.ErrInvalidCredentials)
}

func TestRegistrationValidation(t *testing.T) {
	req := require.New(t)
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{"Valid request", RegisterRequest{"alice", "test@example.com", "ComplexPass123!"}, nil},
		{"Missing username", RegisterRequest{"", "test@example.com", "ComplexPass123!"}, errors.ErrInvalidPayload},
		{"Invalid email", RegisterRequest{"alice", "notanemail", "ComplexPass123!"}, errors.ErrInvalidPayload},
		{"Password too short", RegisterRequest{"alice", "test@example.com", "Short1!"}, errors.ErrInvalidPayload},
		{"Missing digit", RegisterRequest{"alice", "test@example.com", "NoDigitPass!"}, errors.ErrInvalidPassword},
		{"Missing special char", RegisterRequest{"alice", "test@example.com", "NoSpecialChar123"}, errors.ErrInvalidPassword},
		{"Missing uppercase", RegisterRequest{"alice", "test@example.com", "nouppercase123!"}, errors.ErrInvalidPassword},
		{"Password too long", RegisterRequest{"alice", "test@example.com", strings.Repeat("a", 73)}, errors.ErrInvalidPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRegister(tt.req)
			if tt.wantErr == nil {
				req.NoError(err)
			} else {
				req.ErrorIs(err, tt.wantErr)
			}
		})
	}
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!")
	}
}
