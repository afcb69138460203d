package store

import (
	"context"
	"strings"
	"sync"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/bus"
	"go.uber.org/zap"
)

// ChatsAPI is the backend surface the chats store needs.
type ChatsAPI interface {
	ListChatsByProject(ctx context.Context, projectID string) ([]api.Chat, error)
	CreateChat(ctx context.Context, req api.CreateChatRequest) (api.Chat, error)
}

// Chats is the shared chats collection, scoped to one project at a time.
type Chats struct {
	*Collection[api.Chat]
	client ChatsAPI

	mu    sync.RWMutex
	scope string
}

// NewChats creates an empty chats store.
func NewChats(client ChatsAPI, b *bus.Bus, logger *zap.Logger) *Chats {
	return &Chats{
		Collection: NewCollection[api.Chat]("chats", bus.KindChatsChanged, b, logger),
		client:     client,
	}
}

// Scope returns the project id of the most recent fetch.
func (c *Chats) Scope() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scope
}

// FetchByProject replaces the list with the chats of projectID.
func (c *Chats) FetchByProject(ctx context.Context, projectID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.scope = projectID
	c.mu.Unlock()
	return runFetch(ctx, c.Collection, "Failed to fetch chats", func(ctx context.Context) ([]api.Chat, error) {
		return c.client.ListChatsByProject(ctx, projectID)
	})
}

// Create validates req locally, then creates the chat and appends it.
func (c *Chats) Create(ctx context.Context, req api.CreateChatRequest) (api.Chat, error) {
	if err := ValidateChat(req); err != nil {
		return api.Chat{}, err
	}
	req.Name = strings.TrimSpace(req.Name)
	return runCreate(ctx, c.Collection, "Failed to create chat", func(ctx context.Context) (api.Chat, error) {
		return c.client.CreateChat(ctx, req)
	})
}

// Clear empties the list and forgets the scope.
func (c *Chats) Clear() {
	c.mu.Lock()
	c.scope = ""
	c.mu.Unlock()
	c.Collection.Clear()
}
