package moderation

import (
	"fmt"
	"regexp"
	"unicode"
	"unicode/utf8"
)

// Pattern check thresholds. Boundaries are part of the published gate
// behavior, so changing them changes what the forum accepts.
const (
	// maxLinks is the highest URL count that passes the link-density check.
	maxLinks = 3

	// shortContentLength is the rune count below which any URL is suspicious.
	shortContentLength = 50

	// uppercaseRatioLimit is the strict upper bound on uppercase/letters.
	// Only applied to content longer than shortContentLength runes.
	uppercaseRatioLimit = 0.6

	// maxRepeatRun is the longest allowed run of one repeated character.
	maxRepeatRun = 10
)

// urlPattern matches http/https scheme followed by non-whitespace.
var urlPattern = regexp.MustCompile(`https?://\S+`)

// spamPatterns is the fixed, ordered phrase list. Scanning stops at the
// first match, so at most one spam-phrase reason appears per evaluation.
var spamPatterns = []struct {
	label string
	re    *regexp.Regexp
}{
	{"buy now", regexp.MustCompile(`(?i)buy\s+now`)},
	{"free prize", regexp.MustCompile(`(?i)free\s+(prize|gift|money)`)},
	{"click here", regexp.MustCompile(`(?i)click\s+here`)},
	{"crypto investment", regexp.MustCompile(`(?i)crypto\s+(investment|profits?)`)},
	{"fast earnings", regexp.MustCompile(`(?i)(earn|make)\s+(money|cash)\s+fast`)},
	{"limited time offer", regexp.MustCompile(`(?i)limited\s+time\s+offer`)},
}

// EvaluatePatterns runs every spam/abuse heuristic over content and returns
// the combined signal. All checks run independently (only the spam-phrase
// scan short-circuits on its first match), so Reasons can carry multiple
// findings. Pure and synchronous; never fails.
func EvaluatePatterns(content string) Signal {
	var reasons []string

	length := utf8.RuneCountInString(content)
	urls := urlPattern.FindAllString(content, -1)

	if len(urls) > maxLinks {
		reasons = append(reasons, fmt.Sprintf("high link density: %d URLs detected", len(urls)))
	}

	for _, p := range spamPatterns {
		if p.re.MatchString(content) {
			reasons = append(reasons, fmt.Sprintf("spam phrase detected: %s", p.label))
			break
		}
	}

	if length > shortContentLength {
		if ratio, ok := uppercaseRatio(content); ok && ratio > uppercaseRatioLimit {
			reasons = append(reasons, "excessive uppercase content")
		}
	}

	if longestRun(content) > maxRepeatRun {
		reasons = append(reasons, "excessive character repetition")
	}

	if length < shortContentLength && len(urls) > 0 {
		reasons = append(reasons, "short content with URLs")
	}

	return newSignal(reasons)
}

// uppercaseRatio returns the uppercase-to-letters ratio of s. ok is false
// when s contains no letters at all.
func uppercaseRatio(s string) (ratio float64, ok bool) {
	var letters, upper int
	for _, r := range s {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		}
	}
	if letters == 0 {
		return 0, false
	}
	return float64(upper) / float64(letters), true
}

// longestRun returns the length of the longest run of one repeated rune.
func longestRun(s string) int {
	var prev rune
	run, longest := 0, 0
	for _, r := range s {
		if r == prev {
			run++
		} else {
			prev = r
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
