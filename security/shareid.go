package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// ShareIDLength is the length of a public share token in hex characters.
const ShareIDLength = 12

// NewShareID returns a random public share token. Collisions are possible;
// the unique constraint on notes.public_share_id is the safety net and the
// note service retries generation a bounded number of times.
func NewShareID() (string, error) {
	buf := make([]byte, ShareIDLength/2)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return "", fmt.Errorf("failed to generate share id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
