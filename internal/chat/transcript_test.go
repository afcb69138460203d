package chat

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/bus"
	"github.com/ccumaco/ai-frontend/internal/fakeapi"
	"github.com/ccumaco/ai-frontend/internal/mount"
)

const generateRoute = "POST /generate"

type fixture struct {
	backend *fakeapi.Server
	client  *api.Client
	chat    api.Chat
	scope   *mount.Scope
	tr      *Transcript
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	backend := fakeapi.New(nil)
	srv := httptest.NewServer(backend.Handler())
	t.Cleanup(srv.Close)

	client := api.New(api.Options{BaseURL: srv.URL + fakeapi.BasePath, Timeout: 5 * time.Second})
	p := backend.SeedProject("P")
	c := backend.SeedChat(p.ID, "Design review")
	scope := mount.New(context.Background())
	t.Cleanup(scope.Unmount)

	return &fixture{
		backend: backend,
		client:  client,
		chat:    c,
		scope:   scope,
		tr:      New(c.ID, client, scope, bus.New(), nil),
	}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestOpenLoadsTitleAndMessages(t *testing.T) {
	f := newFixture(t)
	f.backend.SeedMessage(f.chat.ID, api.RoleUser, "earlier")

	if err := f.tr.Open(f.scope.Context()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s := f.tr.Snapshot()
	if s.Title != "Design review" {
		t.Errorf("Title = %q, want Design review", s.Title)
	}
	if len(s.Messages) != 1 || s.Messages[0].Content != "earlier" {
		t.Errorf("Messages = %+v", s.Messages)
	}
	if s.Loading {
		t.Error("Loading = true after Open")
	}
}

func TestOpenMetadataFailureKeepsDefaultTitle(t *testing.T) {
	f := newFixture(t)
	f.backend.Fail("GET /chats/{id}", http.StatusNotFound, "Chat not found")

	if err := f.tr.Open(f.scope.Context()); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	s := f.tr.Snapshot()
	if s.Title != DefaultTitle {
		t.Errorf("Title = %q, want %q", s.Title, DefaultTitle)
	}
	if s.Error != "" {
		t.Errorf("Error = %q, want none for metadata failure", s.Error)
	}
}

func TestSendSuccessRefetches(t *testing.T) {
	f := newFixture(t)
	_ = f.tr.Open(f.scope.Context())
	release := f.backend.Hold(generateRoute)

	f.tr.SetInput("hello")
	done := make(chan error, 1)
	go func() { done <- f.tr.Send(f.scope.Context()) }()

	waitFor(t, "generate request", func() bool { return f.backend.Calls(generateRoute) == 1 })
	mid := f.tr.Snapshot()
	if mid.Input != "" {
		t.Errorf("Input = %q while sending, want cleared", mid.Input)
	}
	if !mid.Composing {
		t.Error("Composing = false while sending")
	}

	release()
	if err := <-done; err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	s := f.tr.Snapshot()
	if s.Composing {
		t.Error("Composing = true after resolution")
	}
	var sawUser, sawAssistant bool
	for _, m := range s.Messages {
		if m.Role == api.RoleUser && m.Content == "hello" {
			sawUser = true
		}
		if m.Role == api.RoleAssistant {
			sawAssistant = true
		}
	}
	if !sawUser || !sawAssistant {
		t.Errorf("Messages = %+v, want user hello and an assistant reply", s.Messages)
	}
	if got, want := len(s.Messages), len(f.backend.Messages(f.chat.ID)); got != want {
		t.Errorf("len(Messages) = %d, want server count %d", got, want)
	}
}

func TestSendFailureRestoresInput(t *testing.T) {
	f := newFixture(t)
	f.backend.SeedMessage(f.chat.ID, api.RoleUser, "earlier")
	_ = f.tr.Open(f.scope.Context())
	before := f.tr.Snapshot().Messages

	f.backend.Fail(generateRoute, http.StatusServiceUnavailable, "Model unavailable")
	f.tr.SetInput("hello")
	err := f.tr.Send(f.scope.Context())
	if err == nil {
		t.Fatal("Send() should fail")
	}

	s := f.tr.Snapshot()
	if s.Input != "hello" {
		t.Errorf("Input = %q, want restored to hello", s.Input)
	}
	if s.Error != "Model unavailable" {
		t.Errorf("Error = %q, want server message", s.Error)
	}
	if s.Composing {
		t.Error("Composing = true after failure")
	}
	if !reflect.DeepEqual(s.Messages, before) {
		t.Errorf("Messages = %+v, want unchanged", s.Messages)
	}
	if n := f.backend.Calls("GET /chats/{id}/messages"); n != 1 {
		t.Errorf("message listings = %d, want 1 (no refetch on failure)", n)
	}
}

func TestSendFailureGenericMessage(t *testing.T) {
	f := newFixture(t)
	f.backend.Fail(generateRoute, http.StatusInternalServerError, "")
	f.tr.SetInput("  keep my spacing ")
	_ = f.tr.Send(f.scope.Context())

	s := f.tr.Snapshot()
	if s.Error != "Failed to send message" {
		t.Errorf("Error = %q, want generic fallback", s.Error)
	}
	if s.Input != "  keep my spacing " {
		t.Errorf("Input = %q, want verbatim draft", s.Input)
	}
}

func TestSendEmptyIssuesNoRequest(t *testing.T) {
	f := newFixture(t)
	for _, in := range []string{"", "   ", "\n\t"} {
		f.tr.SetInput(in)
		if err := f.tr.Send(f.scope.Context()); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Send(%q) error = %v, want ErrEmptyMessage", in, err)
		}
		if got := f.tr.Input(); got != in {
			t.Errorf("Input = %q, want untouched %q", got, in)
		}
	}
	if n := f.backend.Calls(generateRoute); n != 0 {
		t.Errorf("generate calls = %d, want 0", n)
	}
}

func TestSendRejectsReentry(t *testing.T) {
	f := newFixture(t)
	release := f.backend.Hold(generateRoute)
	defer release()

	f.tr.SetInput("first")
	done := make(chan error, 1)
	go func() { done <- f.tr.Send(f.scope.Context()) }()
	waitFor(t, "first send", func() bool { return f.backend.Calls(generateRoute) == 1 })

	f.tr.SetInput("second")
	if err := f.tr.Send(f.scope.Context()); !errors.Is(err, ErrSendInFlight) {
		t.Errorf("second Send() error = %v, want ErrSendInFlight", err)
	}
	if got := f.tr.Input(); got != "second" {
		t.Errorf("Input = %q, want second draft kept", got)
	}

	release()
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if n := f.backend.Calls(generateRoute); n != 1 {
		t.Errorf("generate calls = %d, want 1", n)
	}
}

func TestResolutionAfterUnmountIsDropped(t *testing.T) {
	f := newFixture(t)
	release := f.backend.Hold(generateRoute)
	defer release()

	f.tr.SetInput("hello")
	done := make(chan error, 1)
	go func() { done <- f.tr.Send(f.scope.Context()) }()
	waitFor(t, "send", func() bool { return f.backend.Calls(generateRoute) == 1 })

	f.scope.Unmount()
	<-done

	s := f.tr.Snapshot()
	if len(s.Messages) != 0 {
		t.Errorf("Messages = %+v, want untouched after unmount", s.Messages)
	}
	if s.Error != "" || s.Input != "" {
		t.Errorf("state mutated after unmount: %+v", s)
	}
}

func TestRefreshFailureSurfacesError(t *testing.T) {
	f := newFixture(t)
	f.backend.Fail("GET /chats/{id}/messages", http.StatusInternalServerError, "")
	if err := f.tr.Refresh(f.scope.Context()); err == nil {
		t.Fatal("Refresh() should fail")
	}
	if got := f.tr.Snapshot().Error; got != "Failed to fetch messages" {
		t.Errorf("Error = %q", got)
	}
	f.tr.DismissError()
	if got := f.tr.Snapshot().Error; got != "" {
		t.Errorf("Error = %q after dismiss", got)
	}
}
