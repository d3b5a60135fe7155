package chunk

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const DefaultMaxChars = 2000

type Segment struct {
	Index int
	Text  string
}

// SplitSentences cuts text after '.', '!' or '?' when the terminator is
// followed by whitespace and an uppercase A-Z letter. Abbreviations and
// decimals followed by a capital will split too.
func SplitSentences(text string) []string {
	out := []string{}
	start := 0
	for i := 0; i < len(text); i++ {
		if !isTerminator(text[i]) {
			continue
		}
		j := i + 1
		for j < len(text) {
			r, size := utf8.DecodeRuneInString(text[j:])
			if !unicode.IsSpace(r) {
				break
			}
			j += size
		}
		if j == i+1 || j >= len(text) || !isUpperLatin(text[j]) {
			continue
		}
		if s := strings.TrimSpace(text[start : i+1]); s != "" {
			out = append(out, s)
		}
		start = j
		i = j - 1
	}
	if s := strings.TrimSpace(text[start:]); s != "" {
		out = append(out, s)
	}
	return out
}

// ByChars packs sentences into segments of at most maxChars runes. Text that
// already fits is returned untouched as a single segment.
func ByChars(text string, maxChars int) []Segment {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if runeLen(text) <= maxChars {
		return []Segment{{Index: 0, Text: text}}
	}

	segments := []Segment{}
	emit := func(s string) {
		segments = append(segments, Segment{Index: len(segments), Text: s})
	}

	var buf string
	for _, sentence := range SplitSentences(text) {
		if runeLen(sentence) > maxChars {
			if buf != "" {
				emit(buf)
				buf = ""
			}
			for _, part := range packWords(sentence, maxChars) {
				emit(part)
			}
			continue
		}
		if buf == "" {
			buf = sentence
			continue
		}
		if runeLen(buf)+1+runeLen(sentence) > maxChars {
			emit(buf)
			buf = sentence
			continue
		}
		buf += " " + sentence
	}
	if buf != "" {
		emit(buf)
	}
	return segments
}

// packWords splits an oversized sentence on word boundaries. A single word
// longer than maxChars is emitted on its own.
func packWords(sentence string, maxChars int) []string {
	var out []string
	var buf string
	for _, w := range strings.Fields(sentence) {
		if buf == "" {
			buf = w
			continue
		}
		if runeLen(buf)+1+runeLen(w) > maxChars {
			out = append(out, buf)
			buf = w
			continue
		}
		buf += " " + w
	}
	if buf != "" {
		out = append(out, buf)
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func isTerminator(b byte) bool {
	return b == '.' || b == '!' || b == '?'
}

func isUpperLatin(b byte) bool {
	return b >= 'A' && b <= 'Z'
}
