// Package chat drives the message exchange of one open chat.
package chat

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/bus"
	"github.com/ccumaco/ai-frontend/internal/metrics"
	"github.com/ccumaco/ai-frontend/internal/mount"
	"go.uber.org/zap"
)

var (
	// ErrEmptyMessage is returned by Send when the input is blank.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrSendInFlight is returned by Send while a previous send is unresolved.
	ErrSendInFlight = errors.New("a message is already being sent")
)

// DefaultTitle is shown until chat metadata loads, or if it never does.
const DefaultTitle = "Chat"

// API is the backend surface a transcript needs.
type API interface {
	GetChat(ctx context.Context, chatID string) (api.Chat, error)
	ListMessages(ctx context.Context, chatID string) ([]api.Message, error)
	SendMessage(ctx context.Context, chatID, prompt string) (api.GenerateResult, error)
}

// Snapshot is an immutable view of a transcript.
type Snapshot struct {
	ChatID    string
	Title     string
	Chat      *api.Chat
	Messages  []api.Message
	Input     string
	Loading   bool
	Composing bool // a send is in flight; the assistant is composing
	Error     string
}

// Transcript holds the local, unshared state of one chat view: the
// message list, the composer input and the send lifecycle. The message
// list is only ever replaced by a server listing, never appended locally.
type Transcript struct {
	chatID string
	client API
	scope  *mount.Scope
	bus    *bus.Bus
	logger *zap.Logger

	mu       sync.Mutex
	chat     *api.Chat
	messages []api.Message
	input    string
	loading  bool
	sending  bool
	err      string
}

// New creates a transcript for chatID owned by scope.
func New(chatID string, client API, scope *mount.Scope, b *bus.Bus, logger *zap.Logger) *Transcript {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Transcript{
		chatID: chatID,
		client: client,
		scope:  scope,
		bus:    b,
		logger: logger.With(zap.String("chat_id", chatID)),
	}
}

func (t *Transcript) changed() {
	t.bus.TranscriptChanged(t.chatID)
}

// update applies fn under the lock if the owning view is still mounted.
func (t *Transcript) update(fn func()) bool {
	if !t.scope.Alive() {
		return false
	}
	t.mu.Lock()
	fn()
	t.mu.Unlock()
	t.changed()
	return true
}

// Snapshot returns a copy of the current state.
func (t *Transcript) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	s := Snapshot{
		ChatID:    t.chatID,
		Title:     DefaultTitle,
		Messages:  slices.Clone(t.messages),
		Input:     t.input,
		Loading:   t.loading,
		Composing: t.sending,
		Error:     t.err,
	}
	if t.chat != nil {
		c := *t.chat
		s.Chat = &c
		if c.Name != "" {
			s.Title = c.Name
		}
	}
	return s
}

// Input returns the composer text.
func (t *Transcript) Input() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.input
}

// SetInput replaces the composer text.
func (t *Transcript) SetInput(text string) {
	t.mu.Lock()
	t.input = text
	t.mu.Unlock()
}

// DismissError clears the visible error.
func (t *Transcript) DismissError() {
	t.update(func() { t.err = "" })
}

// Open loads chat metadata and the message list. A metadata failure is
// only logged; the header keeps DefaultTitle.
func (t *Transcript) Open(ctx context.Context) error {
	chat, err := t.client.GetChat(ctx, t.chatID)
	if err != nil {
		t.logger.Warn("fetch chat metadata failed", zap.Error(err))
	} else {
		t.update(func() { t.chat = &chat })
	}
	return t.Refresh(ctx)
}

// Refresh replaces the message list with the server's.
func (t *Transcript) Refresh(ctx context.Context) error {
	started := t.update(func() {
		t.loading = true
		t.err = ""
	})
	if !started {
		return nil
	}
	msgs, err := t.client.ListMessages(ctx, t.chatID)
	t.update(func() {
		t.loading = false
		if err != nil {
			t.err = api.ErrorMessage(err, "Failed to fetch messages")
			return
		}
		t.messages = msgs
	})
	return err
}

// Send posts the composer text. The input is cleared immediately; on
// success the full list is refetched, on failure the text is restored
// verbatim and the list is left untouched. Results arriving after the
// view unmounted are dropped.
func (t *Transcript) Send(ctx context.Context) error {
	t.mu.Lock()
	if t.sending {
		t.mu.Unlock()
		return ErrSendInFlight
	}
	text := t.input
	if strings.TrimSpace(text) == "" {
		t.mu.Unlock()
		return ErrEmptyMessage
	}
	t.input = ""
	t.sending = true
	t.err = ""
	t.mu.Unlock()
	t.changed()

	res, err := t.client.SendMessage(ctx, t.chatID, text)
	metrics.MessagesSentTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	if err != nil {
		msg := api.ErrorMessage(err, "Failed to send message")
		t.logger.Warn("send failed", zap.String("error", msg))
		t.update(func() {
			t.sending = false
			t.err = msg
			// The user may have typed since; the failed draft wins.
			t.input = text
		})
		return err
	}
	if u := res.Response.Usage; u != nil {
		metrics.RecordGeneration(res.Response.Model, u.PromptTokens, u.CompletionTokens)
	}

	msgs, listErr := t.client.ListMessages(ctx, t.chatID)
	t.update(func() {
		t.sending = false
		if listErr != nil {
			t.err = api.ErrorMessage(listErr, "Failed to fetch messages")
			return
		}
		t.messages = msgs
	})
	if listErr != nil {
		t.logger.Warn("refetch after send failed", zap.Error(listErr))
	}
	return nil
}
