// Package parse turns raw message content into command tokens: a shell-like
// tokenizer plus the prefix/command-line/body splitter.
package parse

import (
	"strings"

	"github.com/wardenlabs/warden/internal/text"
)

// Tokenize splits a command line into tokens. Whitespace and commas separate
// tokens; double-quoted segments stay one token and have their escapes
// resolved; a bracketed group `[a, b]` is tokenized recursively and flattened
// into the result. Unterminated quotes or brackets are treated as if closed
// at end of input.
func Tokenize(line string) []string {
	tokens := []string{}
	i := 0
	n := len(line)

	for i < n {
		c := line[i]
		if c == ' ' || c == '\t' || c == ',' {
			i++
			continue
		}

		switch c {
		case '[':
			inner, next := scanUntil(line, i+1, ']')
			inner = text.Unescape(inner, map[rune]string{'[': "[", ']': "]"})
			tokens = append(tokens, Tokenize(inner)...)
			i = next
		case '"':
			raw, next := scanUntil(line, i+1, '"')
			tokens = append(tokens, text.Unescape(raw, nil))
			i = next
		default:
			tok, next := scanPlain(line, i)
			tokens = append(tokens, tok)
			i = next
		}
	}
	return tokens
}

// scanUntil consumes up to the first unescaped terminator, returning the raw
// content (escapes intact) and the index just past the terminator.
func scanUntil(line string, start int, term byte) (string, int) {
	i := start
	for i < len(line) {
		if line[i] == '\\' && i+1 < len(line) {
			i += 2
			continue
		}
		if line[i] == term {
			return line[start:i], i + 1
		}
		i++
	}
	return line[start:], i
}

// scanPlain consumes a bare token. Backslash-escaped separators and syntax
// characters are taken literally.
func scanPlain(line string, start int) (string, int) {
	var b strings.Builder
	i := start
	for i < len(line) {
		c := line[i]
		if c == ' ' || c == '\t' || c == ',' {
			break
		}
		if c == '\\' && i+1 < len(line) {
			switch line[i+1] {
			case ' ', ',', '\\', '"', '[', ']':
				b.WriteByte(line[i+1])
				i += 2
				continue
			}
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), i
}
