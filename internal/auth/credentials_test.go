package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_PlainPassword(t *testing.T) {
	v := NewVerifier(Credentials{Username: "admin", Password: "s3cret"})

	tests := []struct {
		name     string
		user     string
		password string
		want     bool
	}{
		{"match", "admin", "s3cret", true},
		{"wrong password", "admin", "nope", false},
		{"wrong user", "root", "s3cret", false},
		{"empty both", "", "", false},
		{"empty password", "admin", "", false},
		{"case sensitive", "Admin", "s3cret", false},
		{"prefix of password", "admin", "s3cre", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.Verify(tt.user, tt.password))
		})
	}
}

func TestVerifier_BcryptHash(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	v := NewVerifier(Credentials{Username: "admin", PasswordHash: hash})
	assert.True(t, v.Verify("admin", "s3cret"))
	assert.False(t, v.Verify("admin", hash))
	assert.False(t, v.Verify("admin", ""))
}

func TestVerifier_UnconfiguredRejectsEverything(t *testing.T) {
	v := NewVerifier(Credentials{})
	assert.False(t, v.Verify("", ""))
	assert.False(t, v.Verify("admin", "admin"))
}
