package parse

import "strings"

// ParsedMessage is the result of splitting raw content into a command line
// and a free-form body. It is immutable once built.
type ParsedMessage struct {
	IsCommand   bool
	CommandLine string
	Body        string
	Tokens      []string
}

// Message normalizes raw content and splits it. A message is a command iff
// it starts with the prefix (exact, case sensitive). The command line is the
// first logical line; a trailing backslash before a newline continues the
// command line onto the next physical line. Everything after becomes the
// body with leading blank lines stripped. Only the command line is
// tokenized.
func Message(raw, prefix string) ParsedMessage {
	clean := strings.ReplaceAll(raw, "\r\n", "\n")
	clean = strings.ReplaceAll(clean, "\r", "\n")
	clean = strings.TrimSpace(clean)

	isCommand := prefix != "" && strings.HasPrefix(clean, prefix)
	if isCommand {
		clean = strings.TrimLeft(clean[len(prefix):], " \t\n")
	}

	commandLine, rest := splitCommandLine(clean)
	body := strings.TrimLeft(rest, " \t\n")

	return ParsedMessage{
		IsCommand:   isCommand,
		CommandLine: commandLine,
		Body:        body,
		Tokens:      Tokenize(commandLine),
	}
}

// splitCommandLine consumes physical lines while each ends with a
// continuation backslash, joining them without the backslash or newline.
func splitCommandLine(s string) (string, string) {
	var b strings.Builder
	rest := s
	for {
		idx := strings.IndexByte(rest, '\n')
		if idx < 0 {
			b.WriteString(rest)
			return b.String(), ""
		}
		line := rest[:idx]
		if strings.HasSuffix(line, "\\") && !strings.HasSuffix(line, "\\\\") {
			b.WriteString(line[:len(line)-1])
			rest = rest[idx+1:]
			continue
		}
		b.WriteString(line)
		return b.String(), rest[idx+1:]
	}
}
