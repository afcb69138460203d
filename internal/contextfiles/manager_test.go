package contextfiles

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/bus"
	"github.com/ccumaco/ai-frontend/internal/fakeapi"
	"github.com/ccumaco/ai-frontend/internal/mount"
)

const (
	uploadRoute = "POST /projects/{id}/context-files"
	deleteRoute = "DELETE /context-files/{id}"
)

type fixture struct {
	backend *fakeapi.Server
	project api.Project
	scope   *mount.Scope
	m       *Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := fakeapi.New(nil)
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	client := api.New(api.Options{BaseURL: srv.URL + fakeapi.BasePath, Timeout: 5 * time.Second})
	p := backend.SeedProject("Docs")
	scope := mount.New(context.Background())
	t.Cleanup(scope.Unmount)

	return &fixture{
		backend: backend,
		project: p,
		scope:   scope,
		m:       New(p.ID, client, scope, bus.New(), nil),
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func ids(files []api.ContextFile) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.ID)
	}
	return out
}

func TestCheckSelectable(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.MD", "c.markdown", "d.json", "e.pdf", "noext"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "folder.md"), 0700); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		want error
	}{
		{"a.txt", nil},
		{"b.MD", nil},
		{"c.markdown", nil},
		{"d.json", nil},
		{"e.pdf", ErrUnsupportedType},
		{"noext", ErrUnsupportedType},
		{"folder.md", ErrNotRegularFile},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSelectable(filepath.Join(dir, tt.name))
			if !errors.Is(err, tt.want) {
				t.Errorf("CheckSelectable(%q) = %v, want %v", tt.name, err, tt.want)
			}
		})
	}

	if err := CheckSelectable(filepath.Join(dir, "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v, want not-exist", err)
	}
}

func TestLoad(t *testing.T) {
	f := newFixture(t)
	a := f.backend.SeedFile(f.project.ID, "Notes", "notes.md", 10)
	other := f.backend.SeedProject("Other")
	f.backend.SeedFile(other.ID, "Elsewhere", "x.txt", 1)

	if err := f.m.Load(f.scope.Context()); err != nil {
		t.Fatal(err)
	}
	if got := ids(f.m.Snapshot().Files); !reflect.DeepEqual(got, []string{a.ID}) {
		t.Errorf("Files = %v, want only this project's file %s", got, a.ID)
	}
}

func TestLoadFailureYieldsEmptyList(t *testing.T) {
	f := newFixture(t)
	f.backend.SeedFile(f.project.ID, "Notes", "notes.md", 10)
	f.backend.Fail("GET /projects/{id}/context-files", http.StatusInternalServerError, "db down")

	if err := f.m.Load(f.scope.Context()); err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	s := f.m.Snapshot()
	if s.Files == nil || len(s.Files) != 0 {
		t.Errorf("Files = %#v, want empty", s.Files)
	}
}

func TestUploadSuccessAppendsAndClosesPanel(t *testing.T) {
	f := newFixture(t)
	existing := f.backend.SeedFile(f.project.ID, "Old", "old.txt", 3)
	_ = f.m.Load(f.scope.Context())
	f.m.OpenUpload()

	path := writeFile(t, "notes.md", "# Notes\n")
	got, err := f.m.Upload(f.scope.Context(), path, "  Team notes ")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if got.ID == "" || got.FilePath == "" {
		t.Errorf("Upload() = %+v, want server-assigned id and path", got)
	}
	if got.ContextName != "Team notes" {
		t.Errorf("ContextName = %q, want trimmed name", got.ContextName)
	}

	s := f.m.Snapshot()
	if s.UploadOpen {
		t.Error("UploadOpen = true after success")
	}
	if s.Uploading {
		t.Error("Uploading = true after success")
	}
	if want := []string{existing.ID, got.ID}; !reflect.DeepEqual(ids(s.Files), want) {
		t.Errorf("Files = %v, want %v", ids(s.Files), want)
	}
}

func TestUploadFailureKeepsPanelOpen(t *testing.T) {
	f := newFixture(t)
	_ = f.m.Load(f.scope.Context())
	f.m.OpenUpload()
	f.backend.Fail(uploadRoute, http.StatusRequestEntityTooLarge, "File too large")

	path := writeFile(t, "big.txt", strings.Repeat("x", 64))
	if _, err := f.m.Upload(f.scope.Context(), path, ""); err == nil {
		t.Fatal("Upload() should fail")
	}
	s := f.m.Snapshot()
	if !s.UploadOpen {
		t.Error("UploadOpen = false, want panel kept for retry")
	}
	if s.Error != "File too large" {
		t.Errorf("Error = %q, want server message", s.Error)
	}
	if len(s.Files) != 0 {
		t.Errorf("Files = %v, want unchanged", ids(s.Files))
	}

	// Retry after the backend recovers.
	f.backend.Recover(uploadRoute)
	if _, err := f.m.Upload(f.scope.Context(), path, ""); err != nil {
		t.Fatalf("retry error = %v", err)
	}
	s = f.m.Snapshot()
	if s.UploadOpen || s.Error != "" || len(s.Files) != 1 {
		t.Errorf("after retry = %+v", s)
	}
}

func TestUploadMissingFileFallbackMessage(t *testing.T) {
	f := newFixture(t)
	f.m.OpenUpload()
	_, err := f.m.Upload(f.scope.Context(), filepath.Join(t.TempDir(), "gone.txt"), "")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Upload() error = %v, want not-exist", err)
	}
	if got := f.m.Snapshot().Error; !strings.HasPrefix(got, "Failed to upload file: ") {
		t.Errorf("Error = %q, want fallback prefix", got)
	}
	if n := f.backend.Calls(uploadRoute); n != 0 {
		t.Errorf("upload calls = %d, want 0", n)
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	f := newFixture(t)
	a := f.backend.SeedFile(f.project.ID, "A", "a.txt", 1)
	_ = f.m.Load(f.scope.Context())
	before := f.m.Snapshot()

	f.m.RequestDelete(a.ID)
	if got := f.m.Snapshot().PendingDelete; got != a.ID {
		t.Errorf("PendingDelete = %q, want %q", got, a.ID)
	}
	f.m.CancelDelete()

	if n := f.backend.Calls(deleteRoute); n != 0 {
		t.Errorf("delete calls = %d, want 0 after cancel", n)
	}
	after := f.m.Snapshot()
	if !reflect.DeepEqual(after.Files, before.Files) || after.PendingDelete != "" {
		t.Errorf("state changed after cancel: %+v", after)
	}
	if err := f.m.ConfirmDelete(f.scope.Context()); !errors.Is(err, ErrNoPendingDelete) {
		t.Errorf("ConfirmDelete() without request = %v, want ErrNoPendingDelete", err)
	}
}

func TestDeleteRemovesFromListAndSelection(t *testing.T) {
	f := newFixture(t)
	a := f.backend.SeedFile(f.project.ID, "A", "a.txt", 1)
	b := f.backend.SeedFile(f.project.ID, "B", "b.txt", 1)
	_ = f.m.Load(f.scope.Context())
	f.m.ToggleSelected(a.ID)
	f.m.ToggleSelected(b.ID)

	f.m.RequestDelete(a.ID)
	if err := f.m.ConfirmDelete(f.scope.Context()); err != nil {
		t.Fatalf("ConfirmDelete() error = %v", err)
	}
	s := f.m.Snapshot()
	if want := []string{b.ID}; !reflect.DeepEqual(ids(s.Files), want) {
		t.Errorf("Files = %v, want %v", ids(s.Files), want)
	}
	if want := []string{b.ID}; !reflect.DeepEqual(s.Selected, want) {
		t.Errorf("Selected = %v, want %v", s.Selected, want)
	}
	if s.Deleting || s.PendingDelete != "" {
		t.Errorf("delete flags left set: %+v", s)
	}
}

func TestDeleteFailureLeavesList(t *testing.T) {
	f := newFixture(t)
	a := f.backend.SeedFile(f.project.ID, "A", "a.txt", 1)
	_ = f.m.Load(f.scope.Context())
	f.m.ToggleSelected(a.ID)
	f.backend.Fail(deleteRoute, http.StatusInternalServerError, "")

	f.m.RequestDelete(a.ID)
	if err := f.m.ConfirmDelete(f.scope.Context()); err == nil {
		t.Fatal("ConfirmDelete() should fail")
	}
	s := f.m.Snapshot()
	if !reflect.DeepEqual(ids(s.Files), []string{a.ID}) {
		t.Errorf("Files = %v, want unchanged", ids(s.Files))
	}
	if !reflect.DeepEqual(s.Selected, []string{a.ID}) {
		t.Errorf("Selected = %v, want unchanged", s.Selected)
	}
	if s.Error != "Failed to delete file" {
		t.Errorf("Error = %q, want generic fallback", s.Error)
	}
}

func TestToggleSelected(t *testing.T) {
	f := newFixture(t)
	a := f.backend.SeedFile(f.project.ID, "A", "a.txt", 1)
	b := f.backend.SeedFile(f.project.ID, "B", "b.txt", 1)
	_ = f.m.Load(f.scope.Context())

	f.m.ToggleSelected(b.ID)
	f.m.ToggleSelected(a.ID)
	if got, want := f.m.Selected(), []string{a.ID, b.ID}; !reflect.DeepEqual(got, want) {
		t.Errorf("Selected() = %v, want list order %v", got, want)
	}
	f.m.ToggleSelected(a.ID)
	if got, want := f.m.Selected(), []string{b.ID}; !reflect.DeepEqual(got, want) {
		t.Errorf("Selected() = %v, want %v", got, want)
	}
}

func TestGenerateUsesSelection(t *testing.T) {
	f := newFixture(t)
	a := f.backend.SeedFile(f.project.ID, "Style guide", "style.md", 1)
	f.backend.SeedFile(f.project.ID, "Unused", "unused.md", 1)
	_ = f.m.Load(f.scope.Context())
	f.m.ToggleSelected(a.ID)

	gen, err := f.m.Generate(f.scope.Context(), "summarize")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(gen.Content, "Style guide") {
		t.Errorf("Content = %q, want grounded on the selected file", gen.Content)
	}
	s := f.m.Snapshot()
	if s.LastResult == nil || s.LastResult.Content != gen.Content {
		t.Errorf("LastResult = %+v, want %q", s.LastResult, gen.Content)
	}
	if s.Generating {
		t.Error("Generating = true after resolution")
	}

	if _, err := f.m.Generate(f.scope.Context(), "  "); !errors.Is(err, ErrEmptyPrompt) {
		t.Errorf("blank prompt error = %v, want ErrEmptyPrompt", err)
	}
}

func TestUpdatesDroppedAfterUnmount(t *testing.T) {
	f := newFixture(t)
	f.backend.SeedFile(f.project.ID, "A", "a.txt", 1)
	f.scope.Unmount()

	if err := f.m.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	if n := len(f.m.Snapshot().Files); n != 0 {
		t.Errorf("Files = %d entries, want none after unmount", n)
	}
}

func TestFormatSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0.00 KB"},
		{512, "0.50 KB"},
		{2048, "2.00 KB"},
		{1536000, "1500.00 KB"},
	}
	for _, tt := range tests {
		if got := FormatSize(tt.n); got != tt.want {
			t.Errorf("FormatSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
