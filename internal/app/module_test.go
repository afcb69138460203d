package app

import (
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/config"
	"github.com/ccumaco/ai-frontend/internal/fakeapi"
	"github.com/ccumaco/ai-frontend/internal/journal"
	"github.com/ccumaco/ai-frontend/internal/lock"
	"github.com/ccumaco/ai-frontend/internal/profile"
	"github.com/ccumaco/ai-frontend/internal/store"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("AIFRONT_HOME", t.TempDir())
	t.Setenv(config.EnvAPIURL, "")
}

func TestModuleValidates(t *testing.T) {
	isolate(t)
	if err := fx.ValidateApp(Module(Params{Binary: "aifront"})); err != nil {
		t.Fatalf("ValidateApp() error = %v", err)
	}
}

func TestTUIValidates(t *testing.T) {
	isolate(t)
	if err := fx.ValidateApp(Module(Params{Binary: "aifront", Exclusive: true}), TUI()); err != nil {
		t.Fatalf("ValidateApp() error = %v", err)
	}
}

func TestResolveSettingsRejectsBadProfile(t *testing.T) {
	isolate(t)
	if _, err := ResolveSettings(Params{Profile: "Bad Name"}); err == nil {
		t.Error("ResolveSettings() should reject an invalid profile name")
	}
	s, err := ResolveSettings(Params{APIURL: "http://example.test/api/v1/"})
	if err != nil {
		t.Fatal(err)
	}
	if s.Profile != profile.DefaultProfileName || s.APIURL != "http://example.test/api/v1" {
		t.Errorf("ResolveSettings() = %+v", s)
	}
}

func TestAppFetchesThroughJournal(t *testing.T) {
	isolate(t)
	backend := fakeapi.New(nil)
	backend.SeedProject("Alpha")
	srv := httptest.NewServer(backend.Handler())
	defer srv.Close()

	var (
		projects *store.Projects
		client   *api.Client
		j        *journal.Journal
	)
	app := fxtest.New(t,
		Module(Params{Binary: "aifront", APIURL: srv.URL + fakeapi.BasePath, Exclusive: true}),
		fx.Populate(&projects, &client, &j),
	)
	app.RequireStart()

	if err := projects.FetchAll(context.Background()); err != nil {
		t.Fatalf("FetchAll() error = %v", err)
	}
	if got := projects.Snapshot().Data; len(got) != 1 || got[0].Name != "Alpha" {
		t.Errorf("projects = %+v", got)
	}
	entries, err := j.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Route != "/projects" {
		t.Errorf("journal entries = %+v, want one /projects request", entries)
	}

	// A second interactive client on the same profile is refused.
	if _, err := lock.Acquire(profile.Dir(profile.DefaultProfileName), "aifront"); err == nil {
		t.Error("lock should be held while the app runs")
	} else {
		var held *lock.HeldError
		if !errors.As(err, &held) {
			t.Errorf("Acquire() error = %v, want *HeldError", err)
		}
	}

	app.RequireStop()
	if _, err := os.Stat(profile.StateDBPath(profile.DefaultProfileName)); err != nil {
		t.Errorf("state db missing after stop: %v", err)
	}
}
