// Package session is the registry of long-lived conversational sessions. A
// session owns a state string and a transition function; users join and
// leave it per (guild, channel, user) identity, and a reverse index routes
// their messages to the session ahead of command dispatch.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/wardenlabs/warden/internal/permission"
	"github.com/wardenlabs/warden/internal/platform"
)

// Identifier names one user in one channel of one guild.
type Identifier struct {
	Guild   string
	Channel string
	User    string
}

// Key renders the composite reverse-index key.
func (id Identifier) Key() string {
	return id.Guild + "." + id.Channel + "." + id.User
}

// FromMessage derives the join identifier of a message's author.
func FromMessage(msg platform.Message) (Identifier, error) {
	if msg.GuildID() == "" {
		return Identifier{}, fmt.Errorf("message has no guild")
	}
	return Identifier{
		Guild:   msg.GuildID(),
		Channel: msg.ChannelID(),
		User:    msg.Author().ID,
	}, nil
}

// FilterMode selects how an allow list is interpreted.
type FilterMode int

const (
	// Blacklist permits everything except the listed entries.
	Blacklist FilterMode = iota
	// Whitelist permits only the listed entries.
	Whitelist
)

// TransitionFunc consumes one message and returns the session's next state.
// It runs outside the registry lock and may call back into the runtime.
type TransitionFunc func(ctx context.Context, state string, msg platform.Message) (string, error)

// Hook observes a lifecycle event. Hooks run outside the registry lock and
// may call back into the runtime.
type Hook func(ctx context.Context, msg platform.Message) error

// Spec declares a new session.
type Spec struct {
	Name        string
	Description string

	InitialState string
	Transition   TransitionFunc

	OnStart  Hook
	OnJoin   Hook
	OnLeave  Hook
	OnCancel Hook

	// AllowedGuilds defaults to a whitelist of the creating guild.
	AllowedGuilds []string
	GuildFilter   FilterMode
	AllowedUsers  []string
	UserFilter    FilterMode

	RequiredLevel int
}

// Session is owned exclusively by the runtime registry.
type Session struct {
	ID          int64
	Name        string
	Description string

	spec       Spec
	state      string
	joined     map[string]Identifier
	origin     platform.Message
	lastActive time.Time
}

// Info is a read-only snapshot for listings.
type Info struct {
	ID          int64
	Name        string
	Description string
	State       string
	Members     []Identifier
	LastActive  time.Time
}

// UnknownIDError reports an id missing from the registry.
type UnknownIDError struct {
	ID int64
}

func (e *UnknownIDError) Error() string {
	return fmt.Sprintf("invalid session id: %d", e.ID)
}

// AlreadyJoinedError reports a user already joined to a session.
type AlreadyJoinedError struct {
	ID int64
}

func (e *AlreadyJoinedError) Error() string {
	return fmt.Sprintf("already in session %d", e.ID)
}

// NotMemberError reports a leave for a session the user is not in.
type NotMemberError struct {
	ID int64
}

func (e *NotMemberError) Error() string {
	return fmt.Sprintf("not in session %d", e.ID)
}

// NotAllowedError reports a join rejected by a session's filters.
type NotAllowedError struct {
	Reason string
}

func (e *NotAllowedError) Error() string {
	return "cannot join session: " + e.Reason
}

// Runtime owns every running session and the reverse index from composite
// key to session id. Index mutations are mutex-serialized; hooks and
// transition functions run after the lock is released.
type Runtime struct {
	mu       sync.Mutex
	nextID   int64
	sessions map[int64]*Session
	joined   map[string]int64
}

func NewRuntime() *Runtime {
	return &Runtime{
		sessions: map[int64]*Session{},
		joined:   map[string]int64{},
	}
}

// Create registers a session and returns its id. When the spec names no
// guilds, the creating guild becomes a whitelist of one. The origin message
// is retained for lifecycle hooks that fire without a triggering message.
func (r *Runtime) Create(ctx context.Context, msg platform.Message, spec Spec) (int64, error) {
	r.mu.Lock()

	if len(spec.AllowedGuilds) == 0 && msg.GuildID() != "" {
		spec.AllowedGuilds = []string{msg.GuildID()}
		spec.GuildFilter = Whitelist
	}

	id := r.nextID
	r.nextID++
	r.sessions[id] = &Session{
		ID:          id,
		Name:        spec.Name,
		Description: spec.Description,
		spec:        spec,
		state:       spec.InitialState,
		joined:      map[string]Identifier{},
		origin:      msg,
		lastActive:  time.Now(),
	}
	r.mu.Unlock()
	slog.Info("session created", "id", id, "name", spec.Name)

	if spec.OnStart != nil {
		return id, spec.OnStart(ctx, msg)
	}
	return id, nil
}

// Join adds the message author to the session. Fails on unknown ids, on a
// user already in any session, on filter rejection, and below the session's
// required level.
func (r *Runtime) Join(ctx context.Context, msg platform.Message, id int64, level int) error {
	ident, err := FromMessage(msg)
	if err != nil {
		return err
	}

	r.mu.Lock()

	sess, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return &UnknownIDError{ID: id}
	}
	key := ident.Key()
	if current, ok := r.joined[key]; ok {
		r.mu.Unlock()
		return &AlreadyJoinedError{ID: current}
	}
	if !allowed(ident.Guild, sess.spec.AllowedGuilds, sess.spec.GuildFilter) {
		r.mu.Unlock()
		return &NotAllowedError{Reason: "guild not allowed"}
	}
	if !allowed(ident.User, sess.spec.AllowedUsers, sess.spec.UserFilter) {
		r.mu.Unlock()
		return &NotAllowedError{Reason: "user not allowed"}
	}
	if err := permission.Assert(level, sess.spec.RequiredLevel); err != nil {
		r.mu.Unlock()
		return err
	}

	r.joined[key] = id
	sess.joined[key] = ident
	sess.lastActive = time.Now()
	hook := sess.spec.OnJoin
	r.mu.Unlock()
	slog.Info("session joined", "id", id, "key", key)

	if hook != nil {
		return hook(ctx, msg)
	}
	return nil
}

// Leave removes the message author from the session. Fails when the id is
// unknown or the author is not joined to that exact session.
func (r *Runtime) Leave(ctx context.Context, msg platform.Message, id int64) error {
	ident, err := FromMessage(msg)
	if err != nil {
		return err
	}

	r.mu.Lock()
	hook, err := r.leaveLocked(ident, id)
	r.mu.Unlock()
	if err != nil {
		return err
	}
	if hook != nil {
		return hook(ctx, msg)
	}
	return nil
}

// leaveLocked removes one member from both indices and returns the
// session's OnLeave hook for the caller to run unlocked.
func (r *Runtime) leaveLocked(ident Identifier, id int64) (Hook, error) {
	sess, ok := r.sessions[id]
	if !ok {
		return nil, &UnknownIDError{ID: id}
	}
	key := ident.Key()
	if current, ok := r.joined[key]; !ok || current != id {
		return nil, &NotMemberError{ID: id}
	}

	delete(r.joined, key)
	delete(sess.joined, key)
	slog.Info("session left", "id", id, "key", key)
	return sess.spec.OnLeave, nil
}

// Cancel removes the session, runs its OnCancel hook, then runs the OnLeave
// hook once per force-removed member.
func (r *Runtime) Cancel(ctx context.Context, msg platform.Message, id int64) error {
	r.mu.Lock()
	sess, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return &UnknownIDError{ID: id}
	}
	hooks := r.cancelLocked(sess)
	r.mu.Unlock()

	return hooks.run(ctx, msg, id)
}

// cancelHooks is the unlocked tail of a cancellation: OnCancel first, then
// OnLeave once per member that was force-removed. Leave failures are logged,
// never aborting the cancellation.
type cancelHooks struct {
	onCancel Hook
	onLeave  Hook
	members  int
}

func (h cancelHooks) run(ctx context.Context, msg platform.Message, id int64) error {
	var err error
	if h.onCancel != nil {
		err = h.onCancel(ctx, msg)
	}
	if h.onLeave != nil {
		for i := 0; i < h.members; i++ {
			if lerr := h.onLeave(ctx, msg); lerr != nil {
				slog.Error("forced leave hook failed", "id", id, "error", lerr)
			}
		}
	}
	return err
}

// cancelLocked removes the session and its members from both indices and
// returns the hooks for the caller to run unlocked.
func (r *Runtime) cancelLocked(sess *Session) cancelHooks {
	members := 0
	for key := range sess.joined {
		if _, ok := r.joined[key]; !ok {
			slog.Error("reverse index missing session member", "id", sess.ID, "key", key)
			continue
		}
		delete(r.joined, key)
		delete(sess.joined, key)
		members++
	}
	delete(r.sessions, sess.ID)
	slog.Info("session cancelled", "id", sess.ID, "name", sess.Name)
	return cancelHooks{onCancel: sess.spec.OnCancel, onLeave: sess.spec.OnLeave, members: members}
}

// MaybeHandle routes the message to the author's session, if any. The bool
// reports whether a session consumed the message and command processing
// should stop.
func (r *Runtime) MaybeHandle(ctx context.Context, msg platform.Message) (bool, error) {
	ident, err := FromMessage(msg)
	if err != nil {
		return false, nil
	}

	r.mu.Lock()
	id, ok := r.joined[ident.Key()]
	if !ok {
		r.mu.Unlock()
		return false, nil
	}
	sess, ok := r.sessions[id]
	if !ok {
		r.mu.Unlock()
		return false, nil
	}
	sess.lastActive = time.Now()

	switch strings.ToLower(strings.TrimSpace(msg.Content())) {
	case "stop":
		hooks := r.cancelLocked(sess)
		r.mu.Unlock()
		return true, hooks.run(ctx, msg, id)

	case "leave":
		hook, err := r.leaveLocked(ident, id)
		r.mu.Unlock()
		if err != nil {
			return true, err
		}
		if hook != nil {
			return true, hook(ctx, msg)
		}
		return true, nil
	}

	state := sess.state
	transition := sess.spec.Transition
	r.mu.Unlock()

	next, err := transition(ctx, state, msg)
	if err != nil {
		return true, err
	}

	r.mu.Lock()
	if sess, ok := r.sessions[id]; ok {
		sess.state = next
	}
	r.mu.Unlock()
	return true, nil
}

// Get returns a snapshot of one session.
func (r *Runtime) Get(id int64) (Info, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sess, ok := r.sessions[id]
	if !ok {
		return Info{}, false
	}
	return snapshot(sess), true
}

// List returns snapshots of every running session, ordered by id.
func (r *Runtime) List() []Info {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Info, 0, len(r.sessions))
	for id := int64(0); id < r.nextID; id++ {
		if sess, ok := r.sessions[id]; ok {
			out = append(out, snapshot(sess))
		}
	}
	return out
}

// JoinedSession returns the id of the session the identifier is joined to.
func (r *Runtime) JoinedSession(ident Identifier) (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.joined[ident.Key()]
	return id, ok
}

func snapshot(sess *Session) Info {
	members := make([]Identifier, 0, len(sess.joined))
	for _, ident := range sess.joined {
		members = append(members, ident)
	}
	return Info{
		ID:          sess.ID,
		Name:        sess.Name,
		Description: sess.Description,
		State:       sess.state,
		Members:     members,
		LastActive:  sess.lastActive,
	}
}

func allowed(value string, list []string, mode FilterMode) bool {
	listed := false
	for _, v := range list {
		if v == value {
			listed = true
			break
		}
	}
	if mode == Whitelist {
		return len(list) == 0 || listed
	}
	return !listed
}
