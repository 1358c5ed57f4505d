package argparse

import "fmt"

// ParseError reports malformed or out-of-range command arguments. Its
// message is written for the end user and rendered as-is at the dispatch
// boundary.
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return e.Msg }

// Errorf builds a ParseError.
func Errorf(format string, args ...any) *ParseError {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// HelpRenderer renders help text for a consumed word path. Handlers
// implement it; parsers only carry the reference so the dispatcher can
// render nested help without the parser knowing about handlers.
type HelpRenderer interface {
	FormatHelp(words []string) string
}

// HelpError is not a failure: it signals that help output was requested
// (-h/--help), carrying the owning renderer and the tokens consumed after
// the flag so a parent can scope help to a subcommand.
type HelpError struct {
	Renderer HelpRenderer
	Words    []string
}

func (e *HelpError) Error() string { return "help requested" }
