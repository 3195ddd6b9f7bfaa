package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ChunkText splits text into consecutive pieces of at most limit runes. The
// pieces concatenate back to the trimmed input.
func ChunkText(text string, limit int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	limit = max(limit, 1)

	var out []string
	for RuneLen(text) > limit {
		cut := byteIndexAtRunePos(text, limit)
		out = append(out, text[:cut])
		text = text[cut:]
	}
	return append(out, text)
}

func byteIndexAtRunePos(s string, pos int) int {
	i := 0
	for ; pos > 0 && i < len(s); pos-- {
		_, sz := utf8.DecodeRuneInString(s[i:])
		i += sz
	}
	return i
}

func RuneLen(s string) int { return utf8.RuneCountInString(s) }

// Truncate hard-cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n < 0 {
		n = 0
	}
	if RuneLen(s) <= n {
		return s
	}
	return s[:byteIndexAtRunePos(s, n)]
}

// LimitStr returns s truncated to n runes with "..." appended if longer.
func LimitStr(s string, n int) string {
	if RuneLen(s) <= n {
		return s
	}
	return Truncate(s, n) + "..."
}

var whitespaceRX = regexp.MustCompile(`\s+`)

var quotePairs = map[rune]rune{
	'"':  '"',
	'\'': '\'',
	'“':  '”',
	'‘':  '’',
	'«':  '»',
}

// SanitizeSample strips one layer of wrapping quotation marks and collapses
// whitespace runs into single spaces.
func SanitizeSample(s string) string {
	s = strings.TrimSpace(s)
	if first, size := utf8.DecodeRuneInString(s); size > 0 {
		last, lsize := utf8.DecodeLastRuneInString(s)
		if closing, ok := quotePairs[first]; ok && len(s) > size && last == closing {
			s = s[size : len(s)-lsize]
		}
	}
	return strings.TrimSpace(whitespaceRX.ReplaceAllString(s, " "))
}
