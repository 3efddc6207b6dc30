// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"
)

const saltLength = 16

var ErrMalformedHash = errors.New("malformed password hash")

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

// currentArgon is what new hashes use. Stored hashes made with other
// parameters still verify and are upgraded on the next successful login.
var currentArgon = argonParams{
	memory:  64 * 1024,
	time:    1,
	threads: 4,
	keyLen:  32,
}

func (p argonParams) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
}

// storedHash is the PHC string form:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
type storedHash struct {
	params argonParams
	salt   []byte
	key    []byte
}

func (h storedHash) String() string {
	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.memory,
		h.params.time,
		h.params.threads,
		base64.RawStdEncoding.EncodeToString(h.salt),
		base64.RawStdEncoding.EncodeToString(h.key),
	)
}

func parseStoredHash(encoded string) (storedHash, error) {
	var h storedHash

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" {
		return h, ErrMalformedHash
	}
	if fields[1] != "argon2id" {
		return h, fmt.Errorf("%w: algorithm %q", ErrMalformedHash, fields[1])
	}

	var version int
	if _, err := fmt.Sscanf(fields[2], "v=%d", &version); err != nil || version != argon2.Version {
		return h, fmt.Errorf("%w: version %q", ErrMalformedHash, fields[2])
	}

	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d",
		&h.params.memory, &h.params.time, &h.params.threads); err != nil {
		return h, fmt.Errorf("%w: params %q", ErrMalformedHash, fields[3])
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(fields[4]); err != nil {
		return h, fmt.Errorf("%w: salt", ErrMalformedHash)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(fields[5]); err != nil {
		return h, fmt.Errorf("%w: key", ErrMalformedHash)
	}

	//nolint:gosec // G115: argon2id keys are a few dozen bytes
	h.params.keyLen = uint32(len(h.key))

	return h, nil
}

func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	return storedHash{
		params: currentArgon,
		salt:   salt,
		key:    currentArgon.derive(password, salt),
	}.String(), nil
}

func VerifyPassword(password, encodedHash string) (bool, error) {
	stored, err := parseStoredHash(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := stored.params.derive(password, stored.salt)
	return subtle.ConstantTimeCompare(stored.key, candidate) == 1, nil
}

// VerifyPasswordWithRehash also returns a replacement hash when the stored
// one predates currentArgon. A failed rehash is not an error; the old hash
// keeps working.
func VerifyPasswordWithRehash(
	password, encodedHash string,
) (bool, string, error) {
	valid, err := VerifyPassword(password, encodedHash)
	if err != nil || !valid {
		return false, "", err
	}

	stored, err := parseStoredHash(encodedHash)
	if err != nil || stored.params == currentArgon {
		//nolint:nilerr // already parsed once above
		return true, "", nil
	}

	upgraded, err := HashPassword(password)
	if err != nil {
		//nolint:nilerr // the password verified; keep the old hash
		return true, "", nil
	}
	return true, upgraded, nil
}

var decoyHash = sync.OnceValue(func() string {
	hash, err := HashPassword("decoy-password-for-unknown-accounts")
	if err != nil {
		panic(fmt.Sprintf("security: decoy hash: %v", err))
	}
	return hash
})

// VerifyPasswordTimingSafe spends the same argon2 work whether or not the
// account exists. A nil or empty encodedHash never verifies.
func VerifyPasswordTimingSafe(
	password string,
	encodedHash *string,
) (bool, string, error) {
	if encodedHash == nil || *encodedHash == "" {
		//nolint:errcheck // result discarded, only the work matters
		_, _, _ = VerifyPasswordWithRehash(password, decoyHash())
		return false, "", nil
	}

	return VerifyPasswordWithRehash(password, *encodedHash)
}

// ConstantTimeEqual compares two secrets without leaking their common prefix
// length through timing.
func ConstantTimeEqual(a, b string) bool {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ha[:], hb[:]) == 1
}
