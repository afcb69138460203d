package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/contextfiles"
	"github.com/ccumaco/ai-frontend/internal/journal"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"
)

type format int

const (
	formatHuman format = iota
	formatJSON
	formatYAML
)

const wrapWidth = 80

var (
	headerStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	mutedStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	userTagStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33"))
	assistantTagStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("129"))
	cellStyle         = lipgloss.NewStyle().Padding(0, 1)
)

// printer writes command results as JSON, YAML or styled text.
type printer struct {
	w      io.Writer
	format format
	md     *glamour.TermRenderer
}

func newPrinter(w io.Writer, f format) *printer {
	p := &printer{w: w, format: f}
	if f == formatHuman {
		md, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(wrapWidth))
		if err == nil {
			p.md = md
		}
	}
	return p
}

// emit writes v in the machine formats, or calls human for text output.
func (p *printer) emit(v any, human func(w io.Writer)) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		human(p.w)
		return nil
	}
}

func (p *printer) markdown(src string) string {
	if p.md == nil {
		return src
	}
	out, err := p.md.Render(src)
	if err != nil {
		return src
	}
	return strings.Trim(out, "\n")
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		}).
		Headers(headers...)
}

func timestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

func renderProjects(w io.Writer, projects []api.Project) {
	if len(projects) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No projects."))
		return
	}
	t := newTable("ID", "NAME", "FILES", "CREATED")
	for _, p := range projects {
		t.Row(p.ID, p.Name, strconv.Itoa(len(p.ContextFiles)), timestamp(p.CreatedAt))
	}
	fmt.Fprintln(w, t.Render())
}

func renderChats(w io.Writer, chats []api.Chat) {
	if len(chats) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No chats."))
		return
	}
	t := newTable("ID", "NAME", "UPDATED")
	for _, c := range chats {
		t.Row(c.ID, c.Name, timestamp(c.UpdatedAt))
	}
	fmt.Fprintln(w, t.Render())
}

func renderFiles(w io.Writer, files []api.ContextFile) {
	if len(files) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No context files."))
		return
	}
	t := newTable("ID", "NAME", "FILE", "SIZE")
	for _, f := range files {
		t.Row(f.ID, f.ContextName, f.OriginalName, contextfiles.FormatSize(f.Size))
	}
	fmt.Fprintln(w, t.Render())
}

func renderActivity(w io.Writer, entries []journal.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No recorded requests."))
		return
	}
	t := newTable("AT", "METHOD", "ROUTE", "STATUS", "DURATION", "ERROR")
	for _, e := range entries {
		status := strconv.Itoa(e.Status)
		if e.Status == 0 {
			status = "-"
		}
		t.Row(timestamp(e.At.Local()), e.Method, e.Route, status, e.Duration.Round(time.Microsecond).String(), e.Error)
	}
	fmt.Fprintln(w, t.Render())
}

func renderCreated(w io.Writer, what, id, name string) {
	line := okStyle.Render("✓") + " " + what + " " + id
	if name != "" {
		line += " " + mutedStyle.Render("("+name+")")
	}
	fmt.Fprintln(w, line)
}

func (p *printer) renderTranscript(w io.Writer, title string, msgs []api.Message) {
	if title != "" {
		fmt.Fprintln(w, headerStyle.Render(title))
		fmt.Fprintln(w)
	}
	if len(msgs) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No messages."))
		return
	}
	for _, m := range msgs {
		switch m.Role {
		case api.RoleUser:
			fmt.Fprintln(w, userTagStyle.Render("You")+" "+mutedStyle.Render(timestamp(m.CreatedAt.Local())))
			fmt.Fprintln(w, m.Content)
		case api.RoleAssistant:
			fmt.Fprintln(w, assistantTagStyle.Render("Assistant")+" "+mutedStyle.Render(timestamp(m.CreatedAt.Local())))
			fmt.Fprintln(w, p.markdown(m.Content))
		default:
			fmt.Fprintln(w, mutedStyle.Render(string(m.Role)))
			fmt.Fprintln(w, m.Content)
		}
		fmt.Fprintln(w)
	}
}

func (p *printer) renderGeneration(w io.Writer, g api.Generation) {
	fmt.Fprintln(w, p.markdown(g.Content))
	if g.Usage != nil {
		fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%s/%s · %d tokens", g.Provider, g.Model, g.Usage.TotalTokens)))
	}
}
