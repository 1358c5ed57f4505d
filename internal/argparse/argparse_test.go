package argparse

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FlagsAndDefaults(t *testing.T) {
	p := New("settings", "")
	p.AddFlag(Spec{Type: NumberRange(1), Default: 1.0, Help: "page"}, "-p", "--page")
	p.AddFlag(Spec{StoreTrue: true}, "-m", "--mentions")

	ns, left, err := p.ParseKnownArgs([]string{"-p", "3"})
	require.NoError(t, err)
	assert.Empty(t, left)
	assert.Equal(t, 3, ns.Int("page", 0))
	assert.False(t, ns.Bool("mentions"))

	ns, _, err = p.ParseKnownArgs(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, ns.Int("page", 0))
}

func TestParse_FlagDestIsLongestName(t *testing.T) {
	p := New("x", "")
	p.AddFlag(Spec{StoreTrue: true}, "-r", "--remove")

	ns, _, err := p.ParseKnownArgs([]string{"-r"})
	require.NoError(t, err)
	assert.True(t, ns.Bool("remove"))
}

func TestParse_FlagMissingValue(t *testing.T) {
	p := New("x", "")
	p.AddFlag(Spec{Type: Int}, "-n")

	_, _, err := p.ParseKnownArgs([]string{"-n"})
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Msg, "expected one value")
}

func TestParse_UnknownFlagsAreLeftovers(t *testing.T) {
	p := New("x", "")
	p.AddPositional("name", Spec{Arity: One})

	ns, left, err := p.ParseKnownArgs([]string{"--wat", "alice", "-z"})
	require.NoError(t, err)
	assert.Equal(t, "alice", ns.String("name"))
	assert.Equal(t, []string{"--wat", "-z"}, left)
}

func TestParse_NegativeNumbersArePositionals(t *testing.T) {
	p := New("x", "")
	p.AddPositional("index", Spec{Arity: One, Type: Int})

	ns, left, err := p.ParseKnownArgs([]string{"-1"})
	require.NoError(t, err)
	assert.Empty(t, left)
	assert.Equal(t, -1, ns.Int("index", 0))
}

func TestParse_RequiredPositionalMissing(t *testing.T) {
	p := New("x", "")
	p.AddPositional("user", Spec{Arity: One})

	_, _, err := p.ParseKnownArgs(nil)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Msg, "user")
}

func TestParse_OptionalPositionalYieldsToRequired(t *testing.T) {
	p := New("x", "")
	p.AddPositional("index", Spec{Arity: Optional, Type: Int})
	p.AddPositional("name", Spec{Arity: One})

	// one token: the optional must yield it to the required positional
	ns, _, err := p.ParseKnownArgs([]string{"alice"})
	require.NoError(t, err)
	assert.Nil(t, ns["index"])
	assert.Equal(t, "alice", ns.String("name"))

	ns, _, err = p.ParseKnownArgs([]string{"2", "alice"})
	require.NoError(t, err)
	assert.Equal(t, 2, ns.Int("index", -1))
	assert.Equal(t, "alice", ns.String("name"))
}

func TestParse_RemainderSwallowsFlagLikes(t *testing.T) {
	p := New("say", "")
	p.AddPositional("words", Spec{Arity: Remainder})

	ns, left, err := p.ParseKnownArgs([]string{"hello", "-x", "--wat", "world"})
	require.NoError(t, err)
	assert.Empty(t, left)
	assert.Equal(t, []string{"hello", "-x", "--wat", "world"}, ns.Strings("words"))
}

func TestParse_RemainderStartsAfterLeadingPositionals(t *testing.T) {
	p := New("settings", "")
	p.AddFlag(Spec{Type: Int}, "-p")
	p.AddPositional("key", Spec{Arity: One})
	p.AddPositional("values", Spec{Arity: Remainder})

	// -p 2 is consumed as a flag because it comes before the remainder
	ns, _, err := p.ParseKnownArgs([]string{"-p", "2", "mykey", "a", "-h", "b"})
	require.NoError(t, err)
	assert.Equal(t, 2, ns.Int("p", 0))
	assert.Equal(t, "mykey", ns.String("key"))
	assert.Equal(t, []string{"a", "-h", "b"}, ns.Strings("values"))
}

func TestParse_HelpAbortsWithRemainingWords(t *testing.T) {
	p := New("links", "")
	p.AddPositional("command", Spec{Arity: ZeroOrMore})

	_, _, err := p.ParseKnownArgs([]string{"-h", "add"})
	var he *HelpError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, []string{"add"}, he.Words)
}

func TestParse_ExactCount(t *testing.T) {
	p := New("x", "")
	p.AddPositional("pair", Spec{Arity: Exact, Count: 2})

	ns, left, err := p.ParseKnownArgs([]string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ns.Strings("pair"))
	assert.Equal(t, []string{"c"}, left)

	_, _, err = p.ParseKnownArgs([]string{"a"})
	assert.Error(t, err)
}

func TestConvert_Int(t *testing.T) {
	v, err := Int("42")
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	_, err = Int("nope")
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
}

func TestConvert_NumberRange(t *testing.T) {
	conv := NumberRange(0, 1)

	v, err := conv("0.5")
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)

	v, err = conv("42%")
	require.NoError(t, err)
	assert.InDelta(t, 0.42, v.(float64), 1e-9)

	_, err = conv("2")
	assert.Error(t, err)
	_, err = conv("-0.1")
	assert.Error(t, err)
}

func TestConvert_BooleanExact(t *testing.T) {
	conv := BooleanExact(BoolSpec{})

	v, err := conv("TRUE")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	v, err = conv("false")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	_, err = conv("yes")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Msg, "choose from")
}

func TestHelp_GeneratedUsage(t *testing.T) {
	p := New("!search", "Search members")
	p.AddFlag(Spec{Type: NumberRange(1, 50), Help: "Result limit"}, "-l", "--limit")
	p.AddPositional("user", Spec{Arity: One, Help: "Name to search"})

	help := p.Help()
	assert.Contains(t, help, "usage: !search [-h] [-l LIMIT] user")
	assert.Contains(t, help, "Search members")
	assert.Contains(t, help, "positional arguments:")
	assert.Contains(t, help, "optional arguments:")
	assert.Contains(t, help, "Result limit")
}
