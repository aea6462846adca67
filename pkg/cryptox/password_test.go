package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// testParams keeps Argon2id cheap so the suite stays fast. Production
// defaults are exercised separately in TestHash_DefaultParams.
var testParams = Argon2Params{MemoryKiB: 8 * 1024, Iterations: 1, Parallelism: 1}

func testHasher() *Hasher {
	return &Hasher{Params: testParams}
}

func TestHash(t *testing.T) {
	h := testHasher()

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль密码"},
		{"whitespace password", "   spaces   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.NotEmpty(t, hash)

			// Verify PHC format
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"),
				"hash should be in PHC format")

			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6, "PHC hash should have 6 parts")
			require.Equal(t, "argon2id", parts[1])
			require.Equal(t, "v=19", parts[2])
			require.Contains(t, parts[3], "m=", "should contain memory parameter")
			require.Contains(t, parts[3], "t=", "should contain iterations parameter")
			require.Contains(t, parts[3], "p=", "should contain parallelism parameter")
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")
		})
	}
}

func TestHash_UniqueSalts(t *testing.T) {
	h := testHasher()
	password := "samepassword"

	hash1, err := h.Hash(password)
	require.NoError(t, err)

	hash2, err := h.Hash(password)
	require.NoError(t, err)

	require.NotEqual(t, hash1, hash2, "hashes should differ due to unique salts")

	// But both should verify the same password
	require.True(t, h.Verify(password, hash1))
	require.True(t, h.Verify(password, hash2))
}

func TestHash_DefaultParams(t *testing.T) {
	h := NewHasher()

	hash, err := h.Hash("test-password")
	require.NoError(t, err)
	require.Contains(t, hash, "m=65536", "memory parameter should be 65536 (64*1024)")
	require.Contains(t, hash, "t=3", "iterations parameter should be 3")
	require.Contains(t, hash, "p=4", "parallelism parameter should be 4")

	require.True(t, h.Verify("test-password", hash))
}

func TestVerify_Success(t *testing.T) {
	h := testHasher()

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль密码"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.True(t, h.Verify(tt.password, hash))
		})
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	h := testHasher()
	hash, err := h.Hash("correct-password")
	require.NoError(t, err)

	tests := []struct {
		name          string
		wrongPassword string
	}{
		{"completely wrong", "wrong-password"},
		{"case difference", "Correct-Password"},
		{"extra space", "correct-password "},
		{"empty password", ""},
		{"truncated password", "correct-passwor"},
		{"very long password", strings.Repeat("x", 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.False(t, h.Verify(tt.wrongPassword, hash))
		})
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	h := testHasher()
	password := "test-password"

	tests := []struct {
		name        string
		invalidHash string
	}{
		{"empty hash", ""},
		{"not a hash at all", "plaintext"},
		{"wrong algorithm", "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing parts", "$argon2id$v=19$m=19456"},
		{"malformed parameters", "$argon2id$v=19$invalid$c2FsdA$aGFzaA"},
		{"invalid base64 salt", "$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA"},
		{"invalid base64 hash", "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!"},
		{"wrong version", "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
		{"missing version", "$argon2id$m=19456,t=2,p=1$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Malformed input reports false, never an error or a panic.
			require.False(t, h.Verify(password, tt.invalidHash))
		})
	}
}

func TestVerify_PepperMismatch(t *testing.T) {
	peppered := &Hasher{Params: testParams, Pepper: "pepper-a"}
	hash, err := peppered.Hash("test-password")
	require.NoError(t, err)

	require.True(t, peppered.Verify("test-password", hash))

	// A hasher with a different pepper must reject the same password.
	other := &Hasher{Params: testParams, Pepper: "pepper-b"}
	require.False(t, other.Verify("test-password", hash))

	unpeppered := &Hasher{Params: testParams}
	require.False(t, unpeppered.Verify("test-password", hash))
}

func TestVerify_CrossParams(t *testing.T) {
	// A hash carries its own parameters, so verification succeeds even when
	// the hasher is configured differently. This keeps old hashes valid
	// after a parameter upgrade.
	old := &Hasher{Params: Argon2Params{MemoryKiB: 8 * 1024, Iterations: 1, Parallelism: 1}}
	hash, err := old.Hash("test-password")
	require.NoError(t, err)

	current := &Hasher{Params: Argon2Params{MemoryKiB: 16 * 1024, Iterations: 2, Parallelism: 2}}
	require.True(t, current.Verify("test-password", hash))
}
