package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

const (
	keyLength  = 32 // Length of the derived key
	saltLength = 16 // Length of the per-hash random salt
)

// Argon2Params are the Argon2id cost parameters embedded in every hash.
type Argon2Params struct {
	MemoryKiB   uint32
	Iterations  uint32
	Parallelism uint8
}

// DefaultArgon2Params is tuned for interactive login verification.
var DefaultArgon2Params = Argon2Params{
	MemoryKiB:   64 * 1024,
	Iterations:  3,
	Parallelism: 4,
}

// Hasher hashes and verifies passwords using Argon2id. The optional Pepper
// is mixed into the pre-hash input and never stored alongside the hash, so
// a leaked database alone is not enough to mount an offline attack.
type Hasher struct {
	Params Argon2Params
	Pepper string
}

// NewHasher returns a Hasher with the default cost parameters.
func NewHasher() *Hasher {
	return &Hasher{Params: DefaultArgon2Params}
}

// Hash generates a PHC-format Argon2id hash string including salt and
// parameters. Each call uses a fresh random salt, so two hashes of the same
// password differ.
func (h *Hasher) Hash(password string) (string, error) {
	p := h.Params
	if p.MemoryKiB == 0 || p.Iterations == 0 || p.Parallelism == 0 {
		p = DefaultArgon2Params
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey(
		[]byte(password+h.Pepper),
		salt,
		p.Iterations,
		p.MemoryKiB,
		p.Parallelism,
		keyLength,
	)

	b64Salt := base64.RawStdEncoding.EncodeToString(salt)
	b64Hash := base64.RawStdEncoding.EncodeToString(hash)

	// Return PHC-style encoded string
	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		p.MemoryKiB,
		p.Iterations,
		p.Parallelism,
		b64Salt,
		b64Hash,
	), nil
}

// Verify compares a plaintext password against a PHC-style Argon2id hash.
//
// All negative outcomes collapse into false: a wrong password, a malformed
// encoded hash, and unsupported parameters are indistinguishable to the
// caller. Verification must not become an oracle for the stored hash's shape.
func (h *Hasher) Verify(password, encodedHash string) bool {
	// Parse PHC format: $argon2id$v=19$m=X,t=Y,p=Z$salt$hash
	parts := make([]string, 0, 6)
	start := 0
	for i := range len(encodedHash) {
		if encodedHash[i] == '$' {
			parts = append(parts, encodedHash[start:i])
			start = i + 1
		}
	}
	parts = append(parts, encodedHash[start:])

	// Expected structure: ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	if len(parts) != 6 {
		return false
	}
	if parts[1] != "argon2id" || parts[2] != "v=19" {
		return false
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return false
	}
	if mem == 0 || iters == 0 || par == 0 {
		return false
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return false
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 {
		return false
	}

	computed := argon2.IDKey(
		[]byte(password+h.Pepper),
		salt,
		iters,
		mem,
		par,
		uint32(len(expected)), // #nosec G115 - hash lengths are bounded by the encoding
	)

	return subtle.ConstantTimeCompare(computed, expected) == 1
}
