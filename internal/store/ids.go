package store

import (
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a time-ordered prefix (base36 milliseconds) followed by 11
// random base36 characters taken from a UUIDv4.
func NewID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 36) + RandomSuffix(11)
}

// RandomSuffix returns n lowercase base36 characters of randomness.
func RandomSuffix(n int) string {
	var b strings.Builder
	for b.Len() < n {
		u := uuid.New()
		s := new(big.Int).SetBytes(u[:]).Text(36)
		// low-order digits only; the high ones carry the version bits
		if len(s) > 12 {
			s = s[len(s)-12:]
		}
		b.WriteString(s)
	}
	return b.String()[:n]
}
