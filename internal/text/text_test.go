package text

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnescape_DefaultTable(t *testing.T) {
	assert.Equal(t, "a\nb", Unescape(`a\nb`, nil))
	assert.Equal(t, `say "hi"`, Unescape(`say \"hi\"`, nil))
	assert.Equal(t, `a\b`, Unescape(`a\\b`, nil))
	// unknown escapes stay verbatim
	assert.Equal(t, `a\qb`, Unescape(`a\qb`, nil))
	// trailing slash survives
	assert.Equal(t, `tail\`, Unescape(`tail\`, nil))
}

func TestEscapeQuotes(t *testing.T) {
	assert.Equal(t, `a \"b\" \\c`, EscapeQuotes(`a "b" \c`))
}

func TestArrayToString(t *testing.T) {
	assert.Equal(t, `["a", "b c"]`, ArrayToString([]string{"a", "b c"}))
	assert.Equal(t, `["say \"hi\""]`, ArrayToString([]string{`say "hi"`}))
	assert.Equal(t, `[]`, ArrayToString(nil))
}

func TestSingularPlural(t *testing.T) {
	assert.Equal(t, "link", SingularPlural(1, "link", ""))
	assert.Equal(t, "links", SingularPlural(2, "link", ""))
	assert.Equal(t, "indices", SingularPlural(3, "index", "indices"))
}

func TestWordWrap_BreaksAtMax(t *testing.T) {
	out := WordWrap("one two three four", WrapOptions{Max: 9, Indent: 2, MaxLines: 4})
	assert.Equal(t, "one two\n  three\n  four", out)
}

func TestWordWrap_StopsAtMaxLines(t *testing.T) {
	out := WordWrap("a b c d e f g h", WrapOptions{Max: 3, Indent: 0, MaxLines: 2})
	assert.Equal(t, 2, strings.Count(out, "\n")+1)
}

func TestWordWrap_CutsOverlongWords(t *testing.T) {
	out := WordWrap("abcdefghij", WrapOptions{Max: 4, Indent: 0, MaxLines: 5})
	assert.Equal(t, "abcd\nefgh\nij", out)
}

func TestNameDescription_Aligned(t *testing.T) {
	out := NameDescription("ping", "Measure latency", ColumnOptions{Tab: 10, MaxLength: 60})
	assert.Equal(t, "ping:     Measure latency", out)
}

func TestNameDescription_LongNamePushesDescription(t *testing.T) {
	out := NameDescription("a-rather-long-name", "desc", ColumnOptions{Tab: 10, MaxLength: 60})
	lines := strings.SplitN(out, "\n", 2)
	assert.Equal(t, "a-rather-long-name:", lines[0])
	assert.Equal(t, strings.Repeat(" ", 10)+"desc", lines[1])
}

func TestNameDescription_PrefixApplied(t *testing.T) {
	out := NameDescription("help", "Show help", ColumnOptions{Tab: 12, Prefix: "  !"})
	assert.True(t, strings.HasPrefix(out, "  !help:"))
}

func TestMention(t *testing.T) {
	assert.Equal(t, "<@42>\nhello", Mention("42", "hello"))
}

func TestPage_AlphabeticalListing(t *testing.T) {
	n, out := Page(PageRequest{
		Keys:       []string{"b", "a", "c"},
		Page:       1,
		PageLength: 2,
		Highlight:  "yml",
		Format:     func(k RankedKey) string { return k.Key },
	})
	assert.Equal(t, 2, n)
	assert.True(t, strings.HasPrefix(out, "> Page `1/2`, Results `1-2/3`"))
	assert.Contains(t, out, "```yml\na\nb```")
}

func TestPage_SecondPage(t *testing.T) {
	n, out := Page(PageRequest{
		Keys:       []string{"b", "a", "c"},
		Page:       2,
		PageLength: 2,
		Format:     func(k RankedKey) string { return k.Key },
	})
	assert.Equal(t, 1, n)
	assert.True(t, strings.HasPrefix(out, "> Page `2/2`, Results `3-3/3`"))
}

func TestPage_OutOfRangeIsEmpty(t *testing.T) {
	n, out := Page(PageRequest{
		Keys:       []string{"a"},
		Page:       5,
		PageLength: 10,
		Format:     func(k RankedKey) string { return k.Key },
	})
	assert.Equal(t, 0, n)
	assert.Empty(t, out)
}

func TestPage_SearchRanksBySimilarity(t *testing.T) {
	var got []string
	_, _ = Page(PageRequest{
		Keys:       []string{"permissions.moderatorRoles", "aliases.play", "permissions.moderatorLevel"},
		Search:     []string{"moderator"},
		Page:       1,
		PageLength: 3,
		Format: func(k RankedKey) string {
			assert.True(t, k.Ranked)
			got = append(got, k.Key)
			return k.Key
		},
	})
	assert.Len(t, got, 3)
	// the alias key is the worst match and must come last
	assert.Equal(t, "aliases.play", got[2])
}
