package moderation

import (
	"strconv"
	"strings"
)

// Fingerprint derives a compact, deterministic digest of content after
// normalizing it: lowercase, whitespace runs collapsed to single spaces,
// leading and trailing whitespace trimmed. Two inputs that differ only in
// case or whitespace always produce the same fingerprint.
//
// The digest is a 31-polynomial accumulator wrapped to the signed 32-bit
// range at every step, rendered in base 36. It is a duplicate-detection
// signal, not a security control: distinct inputs may collide.
func Fingerprint(content string) string {
	var h int32
	for _, r := range normalize(content) {
		h = h*31 + int32(r)
	}
	return strconv.FormatInt(int64(h), 36)
}

// normalize lowercases and collapses all whitespace runs to single spaces.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
