package object

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// HashSize is the length in bytes of a raw object hash.
const HashSize = sha1.Size

// HashHexSize is the length of the hex form of a Hash.
const HashHexSize = HashSize * 2

// Hash is the raw 20-byte SHA-1 digest of a serialized object.
// The zero value never names a stored object and is used as "no commit".
type Hash [HashSize]byte

// HashBytes computes the SHA-1 of data.
func HashBytes(data []byte) Hash {
	return Hash(sha1.Sum(data))
}

// HashObject computes the hash of the envelope "type len\0payload" without
// materializing the envelope.
func HashObject(objType ObjectType, payload []byte) Hash {
	h := sha1.New()
	h.Write(envelopeHeader(objType, len(payload)))
	h.Write(payload)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// ParseHash decodes a 40-character lowercase hex string. Uppercase digits
// are rejected so every hash has exactly one on-disk spelling.
func ParseHash(s string) (Hash, error) {
	var h Hash
	if len(s) != HashHexSize {
		return h, fmt.Errorf("%w: %q has length %d, want %d", ErrInvalidHash, s, len(s), HashHexSize)
	}
	if i := strings.IndexFunc(s, func(c rune) bool { return c >= 'A' && c <= 'F' }); i >= 0 {
		return h, fmt.Errorf("%w: %q: uppercase digit at offset %d", ErrInvalidHash, s, i)
	}
	if _, err := hex.Decode(h[:], []byte(s)); err != nil {
		return Hash{}, fmt.Errorf("%w: %q: %v", ErrInvalidHash, s, err)
	}
	return h, nil
}

// String returns the lowercase hex form.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short returns the first 8 hex characters.
func (h Hash) Short() string {
	return h.String()[:8]
}

// IsZero reports whether h is the zero hash.
func (h Hash) IsZero() bool {
	return h == Hash{}
}

// StoragePath returns the fan-out location of the object relative to the
// objects directory: "ab/cdef0123...".
func (h Hash) StoragePath() string {
	s := h.String()
	return filepath.Join(s[:2], s[2:])
}

func envelopeHeader(objType ObjectType, n int) []byte {
	b := make([]byte, 0, len(objType)+12)
	b = append(b, objType...)
	b = append(b, ' ')
	b = strconv.AppendInt(b, int64(n), 10)
	return append(b, 0)
}
