package memberauth

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/goliatone/go-errors"
)

// refreshTokenEntropy is the number of random bytes behind each opaque
// refresh token value.
const refreshTokenEntropy = 32

// NewOpaqueToken mints a high entropy opaque token value. The value is
// not self describing; it only means something to the refresh token
// store.
func NewOpaqueToken() (string, error) {
	buf := make([]byte, refreshTokenEntropy)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to read random bytes")
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
