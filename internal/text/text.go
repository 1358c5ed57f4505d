// Package text holds the string layout helpers shared by command replies:
// escaping, word wrapping, two-column name/description rendering and the
// pager used by every listing command.
package text

import (
	"fmt"
	"strings"
)

// EscapeQuotes backslash-escapes quotes and backslashes.
func EscapeQuotes(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return r.Replace(s)
}

// DefaultReplacements is the escape table Unescape applies when none is given.
var DefaultReplacements = map[rune]string{
	'n':  "\n",
	'"':  `"`,
	'\\': `\`,
}

// Unescape resolves backslash escapes against a replacement table. Escapes
// not present in the table are kept verbatim, backslash included.
func Unescape(s string, replacements map[rune]string) string {
	if replacements == nil {
		replacements = DefaultReplacements
	}
	var b strings.Builder
	slash := false
	for _, c := range s {
		switch {
		case !slash && c == '\\':
			slash = true
		case !slash:
			b.WriteRune(c)
		default:
			if rep, ok := replacements[c]; ok {
				b.WriteString(rep)
			} else {
				b.WriteRune('\\')
				b.WriteRune(c)
			}
			slash = false
		}
	}
	if slash {
		b.WriteRune('\\')
	}
	return b.String()
}

// ArrayToString renders a value list as `["a", "b"]` with quotes escaped.
func ArrayToString(a []string) string {
	parts := make([]string, len(a))
	for i, e := range a {
		parts[i] = `"` + EscapeQuotes(e) + `"`
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// SingularPlural picks the singular or plural form for an amount. An empty
// plural defaults to singular + "s".
func SingularPlural(amount int, singular, plural string) string {
	if amount == 1 {
		return singular
	}
	if plural != "" {
		return plural
	}
	return singular + "s"
}

// WrapOptions controls WordWrap. StartOffset is how far into the first line
// the text begins (used when appending after a name column).
type WrapOptions struct {
	Max         int
	Indent      int
	StartOffset int
	MaxLines    int
}

// WordWrap wraps s to at most opts.Max columns, indenting continuation lines
// and cutting after opts.MaxLines lines. Existing newlines are honored.
func WordWrap(s string, opts WrapOptions) string {
	if opts.Max <= 0 {
		opts.Max = 128
	}
	if opts.MaxLines <= 0 {
		opts.MaxLines = 4
	}

	var b strings.Builder
	offset := opts.StartOffset
	lineStart := true
	lines := 1
	newLine := "\n" + strings.Repeat(" ", opts.Indent)

	// break starts a fresh indented line; reports false once MaxLines is hit.
	brk := func() bool {
		if lines >= opts.MaxLines {
			return false
		}
		lines++
		b.WriteString(newLine)
		offset = opts.Indent
		lineStart = true
		return true
	}

	paragraphs := strings.Split(s, "\n")
	for pi, para := range paragraphs {
		if pi > 0 {
			if !brk() {
				return b.String()
			}
		}
		for _, word := range strings.Fields(para) {
			sep := 0
			if !lineStart {
				sep = 1
			}
			if offset+sep+len(word) <= opts.Max {
				if sep == 1 {
					b.WriteString(" ")
				}
				b.WriteString(word)
				offset += sep + len(word)
				lineStart = false
				continue
			}
			if !lineStart {
				if !brk() {
					return b.String()
				}
			}
			// cut words that cannot fit on a line of their own
			for offset+len(word) > opts.Max {
				cut := opts.Max - offset
				if cut <= 0 {
					break
				}
				b.WriteString(word[:cut])
				word = word[cut:]
				if !brk() {
					return b.String()
				}
			}
			b.WriteString(word)
			offset += len(word)
			lineStart = false
		}
	}
	return b.String()
}

// ColumnOptions controls NameDescription layout.
type ColumnOptions struct {
	// Tab is the column where the description starts.
	Tab int
	// MaxLength is the total line width before wrapping.
	MaxLength int
	MaxLines  int
	Prefix    string
	Delim     string
	MinSpace  int
}

func (o *ColumnOptions) defaults() {
	if o.Tab <= 0 {
		o.Tab = 16
	}
	if o.MaxLength <= 0 {
		o.MaxLength = 128
	}
	if o.MaxLines <= 0 {
		o.MaxLines = 4
	}
	if o.Delim == "" {
		o.Delim = ":"
	}
	if o.MinSpace <= 0 {
		o.MinSpace = 2
	}
}

// NameDescription lays out "name: description" with the description aligned
// to a column, wrapping long descriptions under that column. A name too long
// for the column pushes the description to the next line.
func NameDescription(name, description string, opts ColumnOptions) string {
	opts.defaults()

	name = opts.Prefix + name
	head := name + opts.Delim
	var b strings.Builder
	b.WriteString(head)

	offset := len(head)
	if offset+opts.MinSpace > opts.Tab {
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", opts.Tab))
		offset = opts.Tab
	} else {
		pad := opts.Tab - offset
		if pad < opts.MinSpace {
			pad = opts.MinSpace
		}
		b.WriteString(strings.Repeat(" ", pad))
		offset += pad
	}

	b.WriteString(WordWrap(description, WrapOptions{
		Max:         opts.MaxLength,
		Indent:      opts.Tab,
		StartOffset: offset,
		MaxLines:    opts.MaxLines,
	}))
	return b.String()
}

// Mention renders a user mention line prepended to a reply body.
func Mention(userID, message string) string {
	return fmt.Sprintf("<@%s>\n%s", userID, message)
}
