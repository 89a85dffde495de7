package storage

import (
	"crypto/rand"
	"crypto/sha256"
	"math/big"
	"regexp"
	"strings"
	"time"
)

const (
	minSuffixLength = 3
	maxSuffixLength = 8
	maxSlugLength   = 24
	nonceSize       = 16 // 128 bits of entropy
	fallbackSlug    = "query"
)

//nolint:gochecknoglobals // compiled pattern is read-only
var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateID derives a saved query ID from its name: a slug of the name followed by a
// base36 hash suffix. The suffix starts at minSuffixLength characters and grows up to
// maxSuffixLength until existsFn reports no collision.
func GenerateID(name string, createdAt time.Time, existsFn func(string) bool) string {
	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}

	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte(createdAt.Format(time.RFC3339Nano)))
	h.Write(nonce)
	suffix := new(big.Int).SetBytes(h.Sum(nil)).Text(36)

	prefix := Slugify(name) + "-"
	for length := minSuffixLength; length <= maxSuffixLength; length++ {
		candidate := prefix + suffix[:length]
		if !existsFn(candidate) {
			return candidate
		}
	}

	// Eight base36 characters collide with negligible probability
	return prefix + suffix[:maxSuffixLength]
}

// Slugify lower-cases name and collapses every run of non-alphanumerics into a dash.
// "Work: This Week!" -> "work-this-week"
func Slugify(name string) string {
	slug := slugRegexp.ReplaceAllString(strings.ToLower(name), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxSlugLength {
		slug = strings.TrimRight(slug[:maxSlugLength], "-")
	}
	if slug == "" {
		return fallbackSlug
	}
	return slug
}
