package licensee

import "strings"

// Alphabet is the confusion-free 32-symbol alphabet used for base-32-like encoding: digits and
// letters, omitting I, O, L, U.
const Alphabet = "0123456789ABCDEFGHJKMNPQRSTWVXYZ"

var alphabetIndex = func() map[byte]int {
	m := make(map[byte]int, len(Alphabet))
	for i := 0; i < len(Alphabet); i++ {
		m[Alphabet[i]] = i
	}
	return m
}()

// StripHyphens removes hyphen segmentation from a license key string.
func StripHyphens(s string) string {
	return strings.ReplaceAll(s, "-", "")
}

// Hyphenate inserts a hyphen every groupSize characters.
func Hyphenate(s string, groupSize int) string {
	var b strings.Builder
	for i := 0; i < len(s); i += groupSize {
		if i > 0 {
			b.WriteByte('-')
		}
		end := i + groupSize
		if end > len(s) {
			end = len(s)
		}
		b.WriteString(s[i:end])
	}
	return b.String()
}
