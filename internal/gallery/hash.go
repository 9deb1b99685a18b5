package gallery

import (
	"crypto/sha256"
	"encoding/hex"
)

// ListingHash fingerprints a listing. Order matters: a reordered directory is
// a different listing for the carousel.
func ListingHash(images []Image) string {
	h := sha256.New()
	for _, img := range images {
		_, _ = h.Write([]byte(img.Src))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(img.Alt))
		_, _ = h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}
