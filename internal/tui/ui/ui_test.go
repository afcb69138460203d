package ui

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func names(stack []Page) []string {
	out := make([]string, len(stack))
	for i, p := range stack {
		out[i] = p.Name
	}
	return out
}

func TestPagesPushPop(t *testing.T) {
	p := NewPages()
	var changes [][]Page
	p.SetOnChange(func(stack []Page) { changes = append(changes, stack) })

	p.Reset("projects", "Projects")
	p.Push("project", "Alpha")
	p.Push("chat", "")

	if got := names(p.Stack()); !reflect.DeepEqual(got, []string{"projects", "project", "chat"}) {
		t.Errorf("Stack() = %v", got)
	}
	if got := p.Stack()[2].Label; got != "chat" {
		t.Errorf("default label = %q, want page name", got)
	}
	if got := p.Pop(); got != "chat" {
		t.Errorf("Pop() = %q, want chat", got)
	}
	if p.Current() != "project" {
		t.Errorf("Current() = %q, want project", p.Current())
	}
	if len(changes) != 4 {
		t.Errorf("onChange fired %d times, want 4", len(changes))
	}
}

func TestPagesRootNeverPopped(t *testing.T) {
	p := NewPages()
	p.Reset("projects", "")
	if got := p.Pop(); got != "" {
		t.Errorf("Pop() on root = %q, want empty", got)
	}
	if p.Depth() != 1 {
		t.Errorf("Depth() = %d, want 1", p.Depth())
	}
}

func TestPagesPopTo(t *testing.T) {
	p := NewPages()
	p.Reset("projects", "")
	p.Push("project", "")
	p.Push("chat", "")
	p.Push("help", "")

	if got := p.PopTo("project"); !reflect.DeepEqual(got, []string{"help", "chat"}) {
		t.Errorf("PopTo() popped %v", got)
	}
	if p.Current() != "project" {
		t.Errorf("Current() = %q", p.Current())
	}
	if got := p.PopTo("missing"); got != nil {
		t.Errorf("PopTo(missing) = %v, want nil", got)
	}
}

func TestPagesRelabel(t *testing.T) {
	p := NewPages()
	fired := 0
	p.Reset("projects", "")
	p.Push("chat", "Chat")
	p.SetOnChange(func([]Page) { fired++ })

	p.Relabel("chat", "Design review")
	p.Relabel("chat", "Design review")
	p.Relabel("missing", "x")
	if got := p.Stack()[1].Label; got != "Design review" {
		t.Errorf("label = %q", got)
	}
	if fired != 1 {
		t.Errorf("onChange fired %d times, want 1", fired)
	}
}

func TestFlashModel(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	f := NewFlashModel()
	f.now = func() time.Time { return now }

	if f.Get() != nil {
		t.Error("Get() on empty model should be nil")
	}

	f.Info("saved")
	if m := f.Get(); m == nil || m.Text != "saved" || m.Level != FlashInfo {
		t.Errorf("Get() = %+v", m)
	}
	now = now.Add(6 * time.Second)
	if f.Get() != nil {
		t.Error("info message should expire")
	}

	f.Err("Failed to fetch projects")
	now = now.Add(time.Hour)
	if m := f.Get(); m == nil || m.Level != FlashErr {
		t.Errorf("error message should persist, got %+v", m)
	}
	f.Clear()
	if f.Get() != nil {
		t.Error("Clear() should remove the message")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"a long project name", 8, "a long …"},
		{"héllo wörld", 5, "héll…"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestCrumbsEscapeLabels(t *testing.T) {
	c := NewCrumbs(DefaultTheme())
	out := c.render([]Page{{Name: "projects", Label: "Projects"}, {Name: "project", Label: "[red]x"}})
	if !strings.Contains(out, "Projects") || !strings.Contains(out, " > ") {
		t.Errorf("render() = %q", out)
	}
	if strings.Contains(out, "[red]x") {
		t.Errorf("label not escaped: %q", out)
	}
}

func TestMenuColumns(t *testing.T) {
	m := NewMenu(DefaultTheme())
	var hints []MenuHint
	for _, k := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		hints = append(hints, MenuHint{Key: k, Description: "do " + k})
	}
	lines := strings.Split(m.render(hints), "\n")
	if len(lines) != menuRows {
		t.Fatalf("lines = %d, want %d", len(lines), menuRows)
	}
	if !strings.Contains(lines[0], "<a>") || !strings.Contains(lines[0], "<f>") {
		t.Errorf("first row = %q, want hints a and f", lines[0])
	}
	if strings.Contains(lines[4], "<f>") {
		t.Errorf("last row = %q", lines[4])
	}
}

func TestPromptHistory(t *testing.T) {
	p := NewPrompt(DefaultTheme())
	p.Activate(PromptCommand)
	if got := p.Previous(); got != "" {
		t.Errorf("Previous() on empty history = %q", got)
	}

	p.remember("refresh")
	p.remember("project alpha")
	p.remember("project alpha")
	p.Activate(PromptCommand)

	if got := p.Previous(); got != "project alpha" {
		t.Errorf("Previous() = %q", got)
	}
	if got := p.Previous(); got != "refresh" {
		t.Errorf("Previous() = %q", got)
	}
	if got := p.Previous(); got != "refresh" {
		t.Errorf("Previous() at oldest = %q", got)
	}
	if got := p.Next(); got != "project alpha" {
		t.Errorf("Next() = %q", got)
	}
	if got := p.Next(); got != "" {
		t.Errorf("Next() past newest = %q, want empty", got)
	}
}
