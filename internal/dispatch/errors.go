package dispatch

import "fmt"

// NotFoundError reports an unknown command or sub-command path.
type NotFoundError struct {
	// Path is the full command path as typed, e.g. "!links frobnicate".
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("command not found: %s", e.Path)
}

// ClearTextError carries a reply that is sent verbatim, without the usual
// mention or formatting.
type ClearTextError struct {
	Text string
}

func (e *ClearTextError) Error() string { return e.Text }
