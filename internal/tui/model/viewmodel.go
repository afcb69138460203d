package model

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/bus"
	"github.com/ccumaco/ai-frontend/internal/chat"
	"github.com/ccumaco/ai-frontend/internal/contextfiles"
	"github.com/ccumaco/ai-frontend/internal/journal"
	"github.com/ccumaco/ai-frontend/internal/mount"
	"github.com/ccumaco/ai-frontend/internal/store"
	"go.uber.org/zap"
)

// Backend is what the per-view state needs from the API client.
type Backend interface {
	chat.API
	contextfiles.API
}

// Recents remembers the last opened entities.
type Recents interface {
	SetRecent(kind, entityID, label string) error
	GetRecent(kind string) (*journal.Recent, error)
}

// ViewModel owns the shared stores and the mount scopes of the project and
// chat pages. Opening a page mounts a scope; leaving it unmounts the scope,
// after which late responses for that page are dropped.
type ViewModel struct {
	Projects *store.Projects
	Chats    *store.Chats

	backend Backend
	recents Recents
	bus     *bus.Bus
	logger  *zap.Logger
	root    context.Context

	mu           sync.Mutex
	project      *api.Project
	projectScope *mount.Scope
	files        *contextfiles.Manager
	chatScope    *mount.Scope
	transcript   *chat.Transcript
}

// NewViewModel creates a view model. root bounds every page scope.
func NewViewModel(root context.Context, backend Backend, projects *store.Projects, chats *store.Chats, recents Recents, b *bus.Bus, logger *zap.Logger) *ViewModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewModel{
		Projects: projects,
		Chats:    chats,
		backend:  backend,
		recents:  recents,
		bus:      b,
		logger:   logger,
		root:     root,
	}
}

// LoadProjects refreshes the project list.
func (vm *ViewModel) LoadProjects(ctx context.Context) error {
	return vm.Projects.FetchAll(ctx)
}

// CreateProject creates a project named name.
func (vm *ViewModel) CreateProject(ctx context.Context, name, description string) (api.Project, error) {
	return vm.Projects.Create(ctx, api.CreateProjectRequest{Name: name, Description: description})
}

// OpenProject mounts the project page for p, replacing any open project.
func (vm *ViewModel) OpenProject(p api.Project) *contextfiles.Manager {
	vm.CloseProject()

	scope := mount.New(vm.root)
	scope.OnUnmount(vm.Chats.Clear)
	files := contextfiles.New(p.ID, vm.backend, scope, vm.bus, vm.logger)

	vm.mu.Lock()
	vm.project = &p
	vm.projectScope = scope
	vm.files = files
	vm.mu.Unlock()

	vm.remember(journal.RecentProject, p.ID, p.Name)
	return files
}

// RefreshProject loads the chats and context files of the open project.
func (vm *ViewModel) RefreshProject() error {
	vm.mu.Lock()
	p, scope, files := vm.project, vm.projectScope, vm.files
	vm.mu.Unlock()
	if p == nil {
		return nil
	}
	ctx := scope.Context()
	_ = files.Load(ctx)
	if !scope.Alive() {
		return nil
	}
	return vm.Chats.FetchByProject(ctx, p.ID)
}

// CreateChat creates a chat in the open project.
func (vm *ViewModel) CreateChat(ctx context.Context, name string) (api.Chat, error) {
	projectID := ""
	if p := vm.ActiveProject(); p != nil {
		projectID = p.ID
	}
	return vm.Chats.Create(ctx, api.CreateChatRequest{ProjectID: projectID, Name: name})
}

// CloseProject unmounts the project page and any chat opened from it.
func (vm *ViewModel) CloseProject() {
	vm.CloseChat()
	vm.mu.Lock()
	scope := vm.projectScope
	vm.project = nil
	vm.projectScope = nil
	vm.files = nil
	vm.mu.Unlock()
	if scope != nil {
		scope.Unmount()
	}
}

// OpenChat mounts the chat page for chatID.
func (vm *ViewModel) OpenChat(chatID, label string) *chat.Transcript {
	vm.CloseChat()

	vm.mu.Lock()
	parent := vm.root
	if vm.projectScope != nil {
		parent = vm.projectScope.Context()
	}
	vm.mu.Unlock()

	scope := mount.New(parent)
	tr := chat.New(chatID, vm.backend, scope, vm.bus, vm.logger)

	vm.mu.Lock()
	vm.chatScope = scope
	vm.transcript = tr
	vm.mu.Unlock()

	vm.remember(journal.RecentChat, chatID, label)
	return tr
}

// ChatContext returns the context of the mounted chat page.
func (vm *ViewModel) ChatContext() context.Context {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.chatScope == nil {
		return vm.root
	}
	return vm.chatScope.Context()
}

// ProjectContext returns the context of the mounted project page.
func (vm *ViewModel) ProjectContext() context.Context {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.projectScope == nil {
		return vm.root
	}
	return vm.projectScope.Context()
}

// CloseChat unmounts the chat page.
func (vm *ViewModel) CloseChat() {
	vm.mu.Lock()
	scope := vm.chatScope
	vm.chatScope = nil
	vm.transcript = nil
	vm.mu.Unlock()
	if scope != nil {
		scope.Unmount()
	}
}

// ActiveProject returns the open project, if any.
func (vm *ViewModel) ActiveProject() *api.Project {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	if vm.project == nil {
		return nil
	}
	p := *vm.project
	return &p
}

// Files returns the context file manager of the open project.
func (vm *ViewModel) Files() *contextfiles.Manager {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.files
}

// Transcript returns the open chat.
func (vm *ViewModel) Transcript() *chat.Transcript {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.transcript
}

// LastProject returns the most recently opened project if it is still in
// the loaded project list.
func (vm *ViewModel) LastProject() (api.Project, bool) {
	if vm.recents == nil {
		return api.Project{}, false
	}
	r, err := vm.recents.GetRecent(journal.RecentProject)
	if err != nil {
		vm.logger.Warn("read recents failed", zap.Error(err))
		return api.Project{}, false
	}
	if r == nil {
		return api.Project{}, false
	}
	for _, p := range vm.Projects.Snapshot().Data {
		if p.ID == r.EntityID {
			return p, true
		}
	}
	return api.Project{}, false
}

// FindProject resolves a project by exact id or case-insensitive name.
func (vm *ViewModel) FindProject(query string) (api.Project, error) {
	return find(vm.Projects.Snapshot().Data, query, "project",
		func(p api.Project) string { return p.ID },
		func(p api.Project) string { return p.Name })
}

// FindChat resolves a chat of the open project by exact id or name.
func (vm *ViewModel) FindChat(query string) (api.Chat, error) {
	return find(vm.Chats.Snapshot().Data, query, "chat",
		func(c api.Chat) string { return c.ID },
		func(c api.Chat) string { return c.Name })
}

// find prefers an exact id, then an exact name, then a unique name prefix.
func find[T any](items []T, query, kind string, id, name func(T) string) (T, error) {
	var zero T
	q := strings.TrimSpace(query)
	if q == "" {
		return zero, fmt.Errorf("%s name required", kind)
	}
	for _, it := range items {
		if id(it) == q {
			return it, nil
		}
	}
	for _, it := range items {
		if strings.EqualFold(name(it), q) {
			return it, nil
		}
	}
	var matches []T
	for _, it := range items {
		if strings.HasPrefix(strings.ToLower(name(it)), strings.ToLower(q)) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return zero, fmt.Errorf("no %s matches %q", kind, q)
	default:
		return zero, fmt.Errorf("%q matches %d %ss", q, len(matches), kind)
	}
}

func (vm *ViewModel) remember(kind, id, label string) {
	if vm.recents == nil {
		return
	}
	if err := vm.recents.SetRecent(kind, id, label); err != nil {
		vm.logger.Warn("write recents failed", zap.String("kind", kind), zap.Error(err))
	}
}
