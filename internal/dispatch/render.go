package dispatch

import (
	"errors"
	"fmt"

	"github.com/wardenlabs/warden/internal/argparse"
	"github.com/wardenlabs/warden/internal/permission"
	"github.com/wardenlabs/warden/internal/platform"
	"github.com/wardenlabs/warden/internal/text"
)

// renderError turns a handler or parser error into the reply the user sees.
// Every branch of the taxonomy has a fixed textual shape.
func (d *Dispatcher) renderError(msg platform.Message, h Handler, err error) string {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return d.reply(msg, "> Command not found: `"+notFound.Path+"`")
	}

	var help *argparse.HelpError
	if errors.As(err, &help) {
		renderer := help.Renderer
		if renderer == nil {
			renderer = h
		}
		return d.reply(msg, fmt.Sprintf("> Help for the command `%s`:\n```yml\n%s\n```",
			h.Prog(), renderer.FormatHelp(help.Words)))
	}

	var denied *permission.Error
	if errors.As(err, &denied) {
		return d.reply(msg, fmt.Sprintf(
			"> You do not meet the required permission level! Required: `%d`; Actual: `%d`",
			denied.Required, denied.Actual))
	}

	var clear *ClearTextError
	if errors.As(err, &clear) {
		return clear.Text
	}

	var parseErr *argparse.ParseError
	if errors.As(err, &parseErr) {
		return d.reply(msg, codeBlock(parseErr.Msg))
	}

	return d.reply(msg, codeBlock(err.Error()))
}

// reply prefixes the author mention, the platform-wide reply convention.
func (d *Dispatcher) reply(msg platform.Message, body string) string {
	return text.Mention(msg.Author().ID, body)
}

func codeBlock(s string) string {
	return "```\n" + s + "\n```"
}
