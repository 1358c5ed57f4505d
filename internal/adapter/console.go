package adapter

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/wardenlabs/warden/internal/config"
	"github.com/wardenlabs/warden/internal/platform"
)

// ConsoleAdapter is a stdin REPL for local operation. Every line becomes a
// message from a fixed operator user in a fixed guild and channel, so the
// full pipeline, settings included, behaves exactly as it does on a real
// platform.
type ConsoleAdapter struct {
	guildID  string
	operator platform.User

	promptStyle lipgloss.Style
	replyStyle  lipgloss.Style
	eventStyle  lipgloss.Style

	mu      sync.Mutex
	nextID  int64
	history []string
	done    chan struct{}
}

const consoleChannelID = "console"

func NewConsoleAdapter(cfg config.ConsoleConfig) *ConsoleAdapter {
	return &ConsoleAdapter{
		guildID: cfg.GuildID,
		operator: platform.User{
			ID:       "operator",
			Username: "operator",
			Tag:      cfg.UserTag,
		},
		promptStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true),
		replyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		eventStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		done:        make(chan struct{}),
	}
}

func (a *ConsoleAdapter) Name() string {
	return "console"
}

func (a *ConsoleAdapter) Start(ctx context.Context, sink Sink) error {
	fmt.Println(a.eventStyle.Render("console adapter started, ctrl-d to quit"))
	fmt.Print(a.promptStyle.Render("> "))

	go func() {
		defer close(a.done)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case <-ctx.Done():
				return
			default:
			}

			line := scanner.Text()
			if line == "" {
				fmt.Print(a.promptStyle.Render("> "))
				continue
			}

			msg := a.newMessage(line)
			out, err := sink.HandleMessage(ctx, msg)
			if err != nil {
				fmt.Println(a.eventStyle.Render("error: " + err.Error()))
			} else if out != "" {
				fmt.Println(a.replyStyle.Render(out))
			}
			fmt.Print(a.promptStyle.Render("> "))
		}
	}()
	return nil
}

func (a *ConsoleAdapter) Stop(ctx context.Context) error {
	select {
	case <-a.done:
	default:
	}
	return nil
}

// Member serves only the fixed operator in the console guild; other guilds
// belong to other adapters.
func (a *ConsoleAdapter) Member(ctx context.Context, guildID, userID string) (*platform.Member, error) {
	if guildID != a.guildID || userID != a.operator.ID {
		return nil, fmt.Errorf("unknown member %s in guild %s", userID, guildID)
	}
	return &platform.Member{
		User:        a.operator,
		DisplayName: a.operator.Username,
	}, nil
}

func (a *ConsoleAdapter) Members(ctx context.Context, guildID string) ([]platform.Member, error) {
	if guildID != a.guildID {
		return nil, fmt.Errorf("unknown guild %s", guildID)
	}
	return []platform.Member{{
		User:        a.operator,
		DisplayName: a.operator.Username,
	}}, nil
}

func (a *ConsoleAdapter) newMessage(content string) *consoleMessage {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.nextID++
	id := strconv.FormatInt(a.nextID, 10)
	a.history = append(a.history, id)
	return &consoleMessage{adapter: a, id: id, content: content, ts: time.Now()}
}

type consoleMessage struct {
	adapter *ConsoleAdapter
	id      string
	content string
	ts      time.Time
}

func (m *consoleMessage) ID() string            { return m.id }
func (m *consoleMessage) Content() string       { return m.content }
func (m *consoleMessage) Author() platform.User { return m.adapter.operator }
func (m *consoleMessage) GuildID() string       { return m.adapter.guildID }
func (m *consoleMessage) ChannelID() string     { return consoleChannelID }
func (m *consoleMessage) Timestamp() time.Time  { return m.ts }

func (m *consoleMessage) Reply(ctx context.Context, text string) error {
	fmt.Println(m.adapter.replyStyle.Render(text))
	return nil
}

func (m *consoleMessage) Send(ctx context.Context, text string) error {
	fmt.Println(m.adapter.replyStyle.Render(text))
	return nil
}

func (m *consoleMessage) React(ctx context.Context, emoji string) error {
	fmt.Println(m.adapter.eventStyle.Render("reaction: " + emoji))
	return nil
}

func (m *consoleMessage) Delete(ctx context.Context) error {
	fmt.Println(m.adapter.eventStyle.Render("deleted message " + m.id))
	return nil
}

// Recent walks the line history newest first.
func (m *consoleMessage) Recent(ctx context.Context, limit int) ([]string, error) {
	m.adapter.mu.Lock()
	defer m.adapter.mu.Unlock()

	history := m.adapter.history
	ids := make([]string, 0, limit)
	for i := len(history) - 1; i >= 0 && len(ids) < limit; i-- {
		ids = append(ids, history[i])
	}
	return ids, nil
}

func (m *consoleMessage) BulkDelete(ctx context.Context, ids []string) error {
	fmt.Println(m.adapter.eventStyle.Render(fmt.Sprintf("deleted %d messages", len(ids))))
	return nil
}
