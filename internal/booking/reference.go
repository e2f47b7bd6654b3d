package booking

import (
	"crypto/rand"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/bumpyy/apartment-permata-hijau-sub000/internal/domain"
)

const base36 = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// ReferencePattern matches every reference NewReference produces.
var ReferencePattern = regexp.MustCompile(`^BK\d+-\d+-\d{4}-\d{2}-\d{2}-[A-Z0-9]{4}$`)

// NewReference builds the reference shared by every reservation of one
// commit: BK{tenant}-{court}-{commit date}-{4 random base36 chars}.
func NewReference(tenantID, courtID int64, commitDate time.Time) (string, error) {
	return newReference(rand.Reader, tenantID, courtID, commitDate)
}

func newReference(r io.Reader, tenantID, courtID int64, commitDate time.Time) (string, error) {
	suffix, err := randomBase36(r, 4)
	if err != nil {
		return "", fmt.Errorf("generate reference: %w", err)
	}
	return fmt.Sprintf("BK%d-%d-%s-%s", tenantID, courtID, commitDate.Format(domain.DateLayout), suffix), nil
}

// randomBase36 draws n characters without modulo bias.
func randomBase36(r io.Reader, n int) (string, error) {
	const limit = 252 // largest multiple of 36 below 256
	out := make([]byte, 0, n)
	buf := make([]byte, n*2)
	for len(out) < n {
		if _, err := io.ReadFull(r, buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, base36[int(b)%36])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}
