package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/chat"
	"github.com/ccumaco/ai-frontend/internal/contextfiles"
	"github.com/ccumaco/ai-frontend/internal/mount"
	"go.uber.org/zap"
)

type usageError string

func (e usageError) Error() string { return string(e) }

type command struct {
	usage   string
	summary string
	run     func(ctx context.Context, e *env, args []string) error
}

var commandOrder = []string{"projects", "chats", "messages", "send", "generate", "files", "activity"}

var commands = map[string]command{
	"projects": {
		usage:   "projects list | projects create <name> [description]",
		summary: "List or create projects",
		run:     cmdProjects,
	},
	"chats": {
		usage:   "chats list <projectID> | chats create <projectID> <name>",
		summary: "List or create chats of a project",
		run:     cmdChats,
	},
	"messages": {
		usage:   "messages <chatID>",
		summary: "Print a chat transcript",
		run:     cmdMessages,
	},
	"send": {
		usage:   "send <chatID> <text>",
		summary: "Send a message and print the reply",
		run:     cmdSend,
	},
	"generate": {
		usage:   "generate [--files id,...] <prompt>",
		summary: "One-off generation grounded on context files",
		run:     cmdGenerate,
	},
	"files": {
		usage:   "files list <projectID> | upload <projectID> <path> [name] | delete <fileID>",
		summary: "Manage context files",
		run:     cmdFiles,
	},
	"activity": {
		usage:   "activity [--limit n]",
		summary: "Show recent backend requests from the local journal",
		run:     cmdActivity,
	},
}

func cmdProjects(ctx context.Context, e *env, args []string) error {
	if len(args) == 0 {
		return usageError("missing subcommand")
	}
	switch args[0] {
	case "list":
		if err := e.projects.FetchAll(ctx); err != nil {
			return err
		}
		projects := e.projects.Snapshot().Data
		return e.out.emit(projects, func(w io.Writer) { renderProjects(w, projects) })
	case "create":
		if len(args) < 2 {
			return usageError("missing project name")
		}
		req := api.CreateProjectRequest{Name: args[1]}
		if len(args) > 2 {
			req.Description = strings.Join(args[2:], " ")
		}
		p, err := e.projects.Create(ctx, req)
		if err != nil {
			return err
		}
		return e.out.emit(p, func(w io.Writer) { renderCreated(w, "project", p.ID, p.Name) })
	default:
		return usageError("unknown subcommand " + args[0])
	}
}

func cmdChats(ctx context.Context, e *env, args []string) error {
	if len(args) < 2 {
		return usageError("missing arguments")
	}
	switch args[0] {
	case "list":
		if err := e.chats.FetchByProject(ctx, args[1]); err != nil {
			return err
		}
		chats := e.chats.Snapshot().Data
		return e.out.emit(chats, func(w io.Writer) { renderChats(w, chats) })
	case "create":
		if len(args) < 3 {
			return usageError("missing chat name")
		}
		c, err := e.chats.Create(ctx, api.CreateChatRequest{ProjectID: args[1], Name: strings.Join(args[2:], " ")})
		if err != nil {
			return err
		}
		return e.out.emit(c, func(w io.Writer) { renderCreated(w, "chat", c.ID, c.Name) })
	default:
		return usageError("unknown subcommand " + args[0])
	}
}

// openTranscript loads a chat through the same component the TUI uses.
func openTranscript(ctx context.Context, e *env, chatID string) (*chat.Transcript, *mount.Scope, error) {
	scope := mount.New(ctx)
	tr := chat.New(chatID, e.client, scope, e.bus, e.logger)
	if err := tr.Open(scope.Context()); err != nil {
		scope.Unmount()
		return nil, nil, fmt.Errorf("%s", api.ErrorMessage(err, "Failed to fetch messages"))
	}
	return tr, scope, nil
}

func cmdMessages(ctx context.Context, e *env, args []string) error {
	if len(args) != 1 {
		return usageError("expected one chat id")
	}
	tr, scope, err := openTranscript(ctx, e, args[0])
	if err != nil {
		return err
	}
	defer scope.Unmount()
	s := tr.Snapshot()
	return e.out.emit(s.Messages, func(w io.Writer) { e.out.renderTranscript(w, s.Title, s.Messages) })
}

func cmdSend(ctx context.Context, e *env, args []string) error {
	if len(args) < 2 {
		return usageError("missing chat id or text")
	}
	tr, scope, err := openTranscript(ctx, e, args[0])
	if err != nil {
		return err
	}
	defer scope.Unmount()

	tr.SetInput(strings.Join(args[1:], " "))
	if err := tr.Send(scope.Context()); err != nil {
		if msg := tr.Snapshot().Error; msg != "" {
			return fmt.Errorf("%s", msg)
		}
		return err
	}
	s := tr.Snapshot()
	if s.Error != "" {
		return fmt.Errorf("%s", s.Error)
	}
	var reply *api.Message
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == api.RoleAssistant {
			reply = &s.Messages[i]
			break
		}
	}
	if reply == nil {
		return fmt.Errorf("no reply in transcript")
	}
	return e.out.emit(reply, func(w io.Writer) { e.out.renderTranscript(w, "", []api.Message{*reply}) })
}

func cmdGenerate(ctx context.Context, e *env, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	files := fs.String("files", "", "comma-separated context file ids")
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	prompt := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(prompt) == "" {
		return usageError(contextfiles.ErrEmptyPrompt.Error())
	}
	res, err := e.client.Generate(ctx, api.GenerateRequest{Prompt: prompt, ContextFiles: splitIDs(*files)})
	if err != nil {
		return fmt.Errorf("%s", api.ErrorMessage(err, "Failed to generate content"))
	}
	return e.out.emit(res.Response, func(w io.Writer) { e.out.renderGeneration(w, res.Response) })
}

func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func cmdFiles(ctx context.Context, e *env, args []string) error {
	if len(args) < 2 {
		return usageError("missing arguments")
	}
	switch args[0] {
	case "list":
		files, err := e.client.ListContextFiles(ctx, args[1])
		if err != nil {
			return fmt.Errorf("%s", api.ErrorMessage(err, "Failed to fetch context files"))
		}
		return e.out.emit(files, func(w io.Writer) { renderFiles(w, files) })
	case "upload":
		if len(args) < 3 {
			return usageError("missing path")
		}
		path := args[2]
		if err := contextfiles.CheckSelectable(path); err != nil {
			return err
		}
		scope := mount.New(ctx)
		defer scope.Unmount()
		m := contextfiles.New(args[1], e.client, scope, e.bus, e.logger)
		f, err := m.Upload(scope.Context(), path, strings.Join(args[3:], " "))
		if err != nil {
			return fmt.Errorf("%s", m.Snapshot().Error)
		}
		return e.out.emit(f, func(w io.Writer) { renderCreated(w, "context file", f.ID, f.ContextName) })
	case "delete":
		id := args[1]
		if !e.yes {
			ok, err := confirm(e.in, e.errOut, fmt.Sprintf("Delete context file %s? [y/N] ", id))
			if err != nil {
				return err
			}
			if !ok {
				e.logger.Info("delete cancelled", zap.String("file_id", id))
				return nil
			}
		}
		if err := e.client.DeleteContextFile(ctx, id); err != nil {
			return fmt.Errorf("%s", api.ErrorMessage(err, "Failed to delete file"))
		}
		result := map[string]string{"deleted": id}
		return e.out.emit(result, func(w io.Writer) { renderCreated(w, "deleted", id, "") })
	default:
		return usageError("unknown subcommand " + args[0])
	}
}

// confirm asks question on w and reads a yes/no answer from r.
func confirm(r io.Reader, w io.Writer, question string) (bool, error) {
	fmt.Fprint(w, question)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func cmdActivity(_ context.Context, e *env, args []string) error {
	limit := 20
	fs := flag.NewFlagSet("activity", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Func("limit", "number of entries", func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return fmt.Errorf("invalid limit %q", s)
		}
		limit = n
		return nil
	})
	if err := fs.Parse(args); err != nil {
		return usageError(err.Error())
	}
	entries, err := e.journal.Recent(limit)
	if err != nil {
		return err
	}
	return e.out.emit(entries, func(w io.Writer) { renderActivity(w, entries) })
}
