// internal/pairgen/daily.go
//
// Deterministic seeding for the daily puzzle. Every player derives the
// same seed for a given calendar date, so Generate with a rand.Rand
// built from DailySeed produces the same pair everywhere.

package pairgen

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DailySeed returns a deterministic seed for a date using
// HMAC-SHA256(salt, YYYY-MM-DD), taking the first 8 bytes as an int64.
func DailySeed(date time.Time, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	return int64(binary.BigEndian.Uint64(sum[:8]) & (1<<63 - 1))
}
