package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/fakeapi"
)

func newClient(t *testing.T, obs api.Observer) (*api.Client, *fakeapi.Server) {
	t.Helper()
	backend := fakeapi.New(nil)
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)
	c := api.New(api.Options{
		BaseURL:  srv.URL + fakeapi.BasePath + "/",
		Timeout:  5 * time.Second,
		Observer: obs,
	})
	return c, backend
}

func TestProjectsRoundTrip(t *testing.T) {
	c, _ := newClient(t, nil)
	ctx := context.Background()

	got, err := c.ListProjects(ctx)
	if err != nil {
		t.Fatalf("ListProjects() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len(projects) = %d, want 0", len(got))
	}

	p, err := c.CreateProject(ctx, api.CreateProjectRequest{Name: "Docs", Description: "manuals"})
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if p.ID == "" || p.Name != "Docs" || p.Description != "manuals" {
		t.Errorf("CreateProject() = %+v", p)
	}
	if p.CreatedAt.IsZero() {
		t.Error("CreatedAt not decoded")
	}

	got, err = c.ListProjects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != p.ID {
		t.Errorf("ListProjects() = %+v, want [%s]", got, p.ID)
	}
}

func TestServerErrorMessage(t *testing.T) {
	c, backend := newClient(t, nil)
	backend.Fail("GET /projects", http.StatusInternalServerError, "database offline")

	_, err := c.ListProjects(context.Background())
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want *api.Error", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("Status = %d, want 500", apiErr.Status)
	}
	if got := api.ErrorMessage(err, "Failed to fetch projects"); got != "database offline" {
		t.Errorf("Message() = %q, want server message", got)
	}
}

func TestServerErrorWithoutMessage(t *testing.T) {
	c, backend := newClient(t, nil)
	backend.Fail("POST /projects", http.StatusBadGateway, "")

	_, err := c.CreateProject(context.Background(), api.CreateProjectRequest{Name: "x"})
	if got := api.ErrorMessage(err, "Failed to create project"); got != "Failed to create project" {
		t.Errorf("Message() = %q, want generic fallback", got)
	}
	if !api.IsStatus(err, http.StatusBadGateway) {
		t.Errorf("IsStatus(502) = false for %v", err)
	}
}

func TestSuccessFalseIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"data":null,"error":"quota exceeded"}`))
	}))
	defer srv.Close()

	c := api.New(api.Options{BaseURL: srv.URL})
	_, err := c.ListProjects(context.Background())
	if got := api.ErrorMessage(err, "fallback"); got != "quota exceeded" {
		t.Errorf("Message() = %q, want quota exceeded", got)
	}
}

func TestNonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "<html>bad gateway</html>", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := api.New(api.Options{BaseURL: srv.URL})
	_, err := c.ListChatsByProject(context.Background(), "p1")
	if !api.IsStatus(err, http.StatusBadGateway) {
		t.Fatalf("error = %v, want status 502", err)
	}
	if got := api.ErrorMessage(err, "Failed to fetch chats"); got != "Failed to fetch chats" {
		t.Errorf("Message() = %q", got)
	}
}

func TestTransportErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := api.New(api.Options{BaseURL: url, Timeout: time.Second})
	_, err := c.ListProjects(context.Background())
	if err == nil {
		t.Fatal("expected transport error")
	}
	got := api.ErrorMessage(err, "Failed to fetch projects")
	if !strings.HasPrefix(got, "Failed to fetch projects: ") {
		t.Errorf("Message() = %q, want fallback prefix", got)
	}
}

func TestChatsAndMessages(t *testing.T) {
	c, backend := newClient(t, nil)
	ctx := context.Background()
	p := backend.SeedProject("P")

	chat, err := c.CreateChat(ctx, api.CreateChatRequest{ProjectID: p.ID, Name: "First"})
	if err != nil {
		t.Fatalf("CreateChat() error = %v", err)
	}
	if chat.ProjectID != p.ID {
		t.Errorf("ProjectID = %q, want %q", chat.ProjectID, p.ID)
	}

	fetched, err := c.GetChat(ctx, chat.ID)
	if err != nil || fetched.Name != "First" {
		t.Fatalf("GetChat() = %+v, %v", fetched, err)
	}

	res, err := c.SendMessage(ctx, chat.ID, "hello")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if res.Response.Content != "Echo: hello" {
		t.Errorf("Content = %q, want %q", res.Response.Content, "Echo: hello")
	}
	if res.MessageID == "" {
		t.Error("MessageID empty")
	}

	msgs, err := c.ListMessages(ctx, chat.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(msgs))
	}
	if msgs[0].Role != api.RoleUser || msgs[0].Content != "hello" {
		t.Errorf("messages[0] = %+v", msgs[0])
	}
	if msgs[1].Role != api.RoleAssistant || msgs[1].Metadata == nil || msgs[1].Metadata.Usage == nil {
		t.Errorf("messages[1] = %+v", msgs[1])
	}
}

func TestContextFileLifecycle(t *testing.T) {
	c, backend := newClient(t, nil)
	ctx := context.Background()
	p := backend.SeedProject("P")

	f, err := c.UploadContextFile(ctx, p.ID, "/tmp/notes.md", strings.NewReader("# Notes\n"), "Team notes")
	if err != nil {
		t.Fatalf("UploadContextFile() error = %v", err)
	}
	if f.OriginalName != "notes.md" {
		t.Errorf("OriginalName = %q, want notes.md", f.OriginalName)
	}
	if f.ContextName != "Team notes" {
		t.Errorf("ContextName = %q, want Team notes", f.ContextName)
	}
	if f.MimeType != "text/markdown" {
		t.Errorf("MimeType = %q, want text/markdown", f.MimeType)
	}
	if f.Size != 8 {
		t.Errorf("Size = %d, want 8", f.Size)
	}

	files, err := c.ListContextFiles(ctx, p.ID)
	if err != nil || len(files) != 1 {
		t.Fatalf("ListContextFiles() = %v, %v", files, err)
	}

	gen, err := c.Generate(ctx, api.GenerateRequest{Prompt: "summarize", ContextFiles: []string{f.ID}})
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if !strings.Contains(gen.Response.Content, "Team notes") {
		t.Errorf("Content = %q, want context name mentioned", gen.Response.Content)
	}

	if err := c.DeleteContextFile(ctx, f.ID); err != nil {
		t.Fatalf("DeleteContextFile() error = %v", err)
	}
	if err := c.DeleteContextFile(ctx, f.ID); !api.IsStatus(err, http.StatusNotFound) {
		t.Errorf("second delete error = %v, want 404", err)
	}
}

func TestUploadWithoutContextName(t *testing.T) {
	c, backend := newClient(t, nil)
	p := backend.SeedProject("P")

	f, err := c.UploadContextFile(context.Background(), p.ID, "data.json", strings.NewReader("{}"), "")
	if err != nil {
		t.Fatal(err)
	}
	if f.ContextName != "data.json" {
		t.Errorf("ContextName = %q, want original filename", f.ContextName)
	}
}

func TestContextFileAcceptsLegacyID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"legacy-1","originalname":"a.txt","size":10}]}`))
	}))
	defer srv.Close()

	c := api.New(api.Options{BaseURL: srv.URL})
	files, err := c.ListContextFiles(context.Background(), "p")
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].ID != "legacy-1" {
		t.Errorf("files = %+v, want id legacy-1", files)
	}
}

func TestObserverAndRequestID(t *testing.T) {
	var (
		mu   sync.Mutex
		recs []api.RequestRecord
	)
	var seenID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seenID = r.Header.Get("X-Request-ID")
		mu.Unlock()
		_, _ = w.Write([]byte(`{"success":true,"data":[]}`))
	}))
	defer srv.Close()

	c := api.New(api.Options{
		BaseURL: srv.URL,
		Observer: api.ObserverFunc(func(r api.RequestRecord) {
			mu.Lock()
			recs = append(recs, r)
			mu.Unlock()
		}),
	})
	if _, err := c.ListChatsByProject(context.Background(), "p 1"); err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(recs) != 1 {
		t.Fatalf("observed %d requests, want 1", len(recs))
	}
	r := recs[0]
	if r.Route != "/projects/{id}/chats" {
		t.Errorf("Route = %q, want templated route", r.Route)
	}
	if r.Path != "/projects/p 1/chats" {
		t.Errorf("Path = %q", r.Path)
	}
	if r.Status != http.StatusOK {
		t.Errorf("Status = %d, want 200", r.Status)
	}
	if seenID == "" || seenID != r.ID {
		t.Errorf("X-Request-ID = %q, record id = %q", seenID, r.ID)
	}
}
