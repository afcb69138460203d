// Package contextfiles manages the documents attached to one project and
// the selection used to ground generations.
package contextfiles

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
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
	// ErrUnsupportedType is returned by CheckSelectable for other extensions.
	ErrUnsupportedType = errors.New("only .txt, .md, .markdown and .json files can be attached")
	// ErrNotRegularFile is returned by CheckSelectable for directories and devices.
	ErrNotRegularFile = errors.New("not a regular file")
	// ErrNoPendingDelete is returned by ConfirmDelete without a prior RequestDelete.
	ErrNoPendingDelete = errors.New("no delete awaiting confirmation")
	// ErrEmptyPrompt is returned by Generate when the prompt is blank.
	ErrEmptyPrompt = errors.New("prompt is empty")
)

// Extensions lists the file types accepted at selection time.
var Extensions = []string{".txt", ".md", ".markdown", ".json"}

// API is the backend surface a manager needs.
type API interface {
	ListContextFiles(ctx context.Context, projectID string) ([]api.ContextFile, error)
	UploadContextFile(ctx context.Context, projectID, filename string, content io.Reader, contextName string) (api.ContextFile, error)
	DeleteContextFile(ctx context.Context, fileID string) error
	Generate(ctx context.Context, req api.GenerateRequest) (api.GenerateResult, error)
}

// Snapshot is an immutable view of a manager.
type Snapshot struct {
	ProjectID     string
	Files         []api.ContextFile
	Selected      []string
	UploadOpen    bool
	Uploading     bool
	PendingDelete string
	Deleting      bool
	Generating    bool
	LastResult    *api.Generation
	Error         string
}

// Manager owns the context file list of one project view. Nothing here is
// shared with other views; it lives as long as its mount scope.
type Manager struct {
	projectID string
	client    API
	scope     *mount.Scope
	bus       *bus.Bus
	logger    *zap.Logger

	mu            sync.Mutex
	files         []api.ContextFile
	selected      map[string]bool
	uploadOpen    bool
	uploading     bool
	pendingDelete string
	deleting      bool
	generating    bool
	last          *api.Generation
	err           string
}

// New creates a manager for projectID owned by scope.
func New(projectID string, client API, scope *mount.Scope, b *bus.Bus, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		projectID: projectID,
		client:    client,
		scope:     scope,
		bus:       b,
		logger:    logger.With(zap.String("project_id", projectID)),
		selected:  make(map[string]bool),
	}
}

func (m *Manager) update(fn func()) bool {
	if !m.scope.Alive() {
		return false
	}
	m.mu.Lock()
	fn()
	m.mu.Unlock()
	m.bus.FilesChanged(m.projectID)
	return true
}

// Snapshot returns a copy of the current state. Selected follows list order.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{
		ProjectID:     m.projectID,
		Files:         slices.Clone(m.files),
		Selected:      m.selectedLocked(),
		UploadOpen:    m.uploadOpen,
		Uploading:     m.uploading,
		PendingDelete: m.pendingDelete,
		Deleting:      m.deleting,
		Generating:    m.generating,
		Error:         m.err,
	}
	if m.last != nil {
		g := *m.last
		s.LastResult = &g
	}
	return s
}

func (m *Manager) selectedLocked() []string {
	ids := make([]string, 0, len(m.selected))
	for _, f := range m.files {
		if m.selected[f.ID] {
			ids = append(ids, f.ID)
		}
	}
	return ids
}

// Load replaces the list with the server's. A failed listing leaves an
// empty list and is only logged.
func (m *Manager) Load(ctx context.Context) error {
	files, err := m.client.ListContextFiles(ctx, m.projectID)
	if err != nil {
		m.logger.Warn("list context files failed", zap.Error(err))
		files = []api.ContextFile{}
	}
	m.update(func() {
		m.files = files
		for id := range m.selected {
			if !slices.ContainsFunc(files, func(f api.ContextFile) bool { return f.ID == id }) {
				delete(m.selected, id)
			}
		}
	})
	return nil
}

// CheckSelectable reports whether path may be offered for upload: a single
// regular file with a plain-text-like extension.
func CheckSelectable(path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(Extensions, ext) {
		return fmt.Errorf("%s: %w", filepath.Base(path), ErrUnsupportedType)
	}
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", filepath.Base(path), ErrNotRegularFile)
	}
	return nil
}

// OpenUpload shows the upload panel.
func (m *Manager) OpenUpload() {
	m.update(func() { m.uploadOpen = true })
}

// CloseUpload dismisses the upload panel and its error.
func (m *Manager) CloseUpload() {
	m.update(func() {
		m.uploadOpen = false
		m.err = ""
	})
}

// UploadOpen reports whether the upload panel is shown.
func (m *Manager) UploadOpen() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploadOpen
}

// Upload sends the file at path. On success the server record is appended
// and the panel closes; on failure the panel stays open for a retry.
func (m *Manager) Upload(ctx context.Context, path, contextName string) (api.ContextFile, error) {
	m.update(func() {
		m.uploading = true
		m.err = ""
	})

	f, err := m.upload(ctx, path, strings.TrimSpace(contextName))
	metrics.ContextFileOpsTotal.WithLabelValues("upload", metrics.Outcome(err)).Inc()
	if err != nil {
		msg := api.ErrorMessage(err, "Failed to upload file")
		m.logger.Warn("upload failed", zap.String("path", path), zap.String("error", msg))
		m.update(func() {
			m.uploading = false
			m.err = msg
		})
		return api.ContextFile{}, err
	}
	m.logger.Info("uploaded context file", zap.String("file_id", f.ID), zap.String("name", f.ContextName))
	m.update(func() {
		m.uploading = false
		m.uploadOpen = false
		m.files = append(slices.Clip(m.files), f)
	})
	return f, nil
}

func (m *Manager) upload(ctx context.Context, path, contextName string) (api.ContextFile, error) {
	fh, err := os.Open(path)
	if err != nil {
		return api.ContextFile{}, err
	}
	defer fh.Close()
	return m.client.UploadContextFile(ctx, m.projectID, path, fh, contextName)
}

// RequestDelete marks id as awaiting confirmation. No request is issued.
func (m *Manager) RequestDelete(id string) {
	m.update(func() { m.pendingDelete = id })
}

// CancelDelete abandons the pending delete.
func (m *Manager) CancelDelete() {
	m.update(func() { m.pendingDelete = "" })
}

// ConfirmDelete deletes the file passed to RequestDelete. The list only
// changes once the server has confirmed.
func (m *Manager) ConfirmDelete(ctx context.Context) error {
	m.mu.Lock()
	id := m.pendingDelete
	m.mu.Unlock()
	if id == "" {
		return ErrNoPendingDelete
	}
	m.update(func() {
		m.pendingDelete = ""
		m.deleting = true
		m.err = ""
	})

	err := m.client.DeleteContextFile(ctx, id)
	metrics.ContextFileOpsTotal.WithLabelValues("delete", metrics.Outcome(err)).Inc()
	if err != nil {
		msg := api.ErrorMessage(err, "Failed to delete file")
		m.logger.Warn("delete failed", zap.String("file_id", id), zap.String("error", msg))
		m.update(func() {
			m.deleting = false
			m.err = msg
		})
		return err
	}
	m.update(func() {
		m.deleting = false
		m.files = slices.DeleteFunc(slices.Clone(m.files), func(f api.ContextFile) bool { return f.ID == id })
		delete(m.selected, id)
	})
	return nil
}

// ToggleSelected flips whether id grounds the next generation.
func (m *Manager) ToggleSelected(id string) {
	m.update(func() {
		if m.selected[id] {
			delete(m.selected, id)
		} else {
			m.selected[id] = true
		}
	})
}

// Selected returns the selected ids in list order.
func (m *Manager) Selected() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selectedLocked()
}

// DismissError clears the visible error.
func (m *Manager) DismissError() {
	m.update(func() { m.err = "" })
}

// Generate runs a one-off generation grounded on the selected files and
// keeps the result as the last one.
func (m *Manager) Generate(ctx context.Context, prompt string) (api.Generation, error) {
	if strings.TrimSpace(prompt) == "" {
		return api.Generation{}, ErrEmptyPrompt
	}
	ids := m.Selected()
	m.update(func() {
		m.generating = true
		m.err = ""
	})

	res, err := m.client.Generate(ctx, api.GenerateRequest{Prompt: prompt, ContextFiles: ids})
	if err != nil {
		msg := api.ErrorMessage(err, "Failed to generate content")
		m.logger.Warn("generate failed", zap.String("error", msg))
		m.update(func() {
			m.generating = false
			m.err = msg
		})
		return api.Generation{}, err
	}
	if u := res.Response.Usage; u != nil {
		metrics.RecordGeneration(res.Response.Model, u.PromptTokens, u.CompletionTokens)
	}
	gen := res.Response
	m.update(func() {
		m.generating = false
		m.last = &gen
	})
	return gen, nil
}

// FormatSize renders a byte count in kilobytes with two decimals.
func FormatSize(n int64) string {
	return fmt.Sprintf("%.2f KB", float64(n)/1024)
}
