package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/bus"
	"github.com/ccumaco/ai-frontend/internal/chat"
	"github.com/ccumaco/ai-frontend/internal/contextfiles"
	"github.com/ccumaco/ai-frontend/internal/status"
	"github.com/ccumaco/ai-frontend/internal/tui/keys"
	"github.com/ccumaco/ai-frontend/internal/tui/model"
	"github.com/ccumaco/ai-frontend/internal/tui/ui"
	"github.com/ccumaco/ai-frontend/internal/tui/views"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	"go.uber.org/zap"
)

const (
	pageProjects = "projects"
	pageProject  = "project"
	pageChat     = "chat"
	pageHelp     = "help"
	pageUpload   = "upload"
	pageConfirm  = "confirm"
	pageInfo     = "info"
)

// refreshInterval paces the header clock and flash expiry.
const refreshInterval = 5 * time.Second

// Options describe the backend the shell is attached to.
type Options struct {
	Profile string
	APIURL  string
}

// App is the main TUI application shell.
type App struct {
	app      *tview.Application
	root     *tview.Flex
	pages    *ui.Pages
	vm       *model.ViewModel
	bus      *bus.Bus
	logger   *zap.Logger
	registry *keys.Registry
	theme    *ui.Theme
	opts     Options
	started  time.Time

	flash       *ui.FlashModel
	flashBar    *ui.FlashBar
	crumbs      *ui.Crumbs
	menu        *ui.Menu
	profileInfo *ui.ProfileInfo
	prompt      *ui.Prompt
	promptOpen  bool
	statusBar   *views.StatusBar

	projects   *views.ProjectList
	project    *views.ProjectView
	transcript *views.TranscriptView
	upload     *views.UploadForm
	confirm    *views.Confirm
	info       *views.ProjectInfo
	help       *views.HelpView
	components map[string]ui.Component

	lastStoreErr map[string]string

	ctx    context.Context
	cancel context.CancelFunc
}

// NewApp creates the TUI application.
func NewApp(vm *model.ViewModel, b *bus.Bus, opts Options, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	theme := ui.DefaultTheme()
	md := views.NewMarkdown()

	a := &App{
		app:          tview.NewApplication(),
		pages:        ui.NewPages(),
		vm:           vm,
		bus:          b,
		logger:       logger.Named("tui"),
		registry:     keys.NewRegistry(),
		theme:        theme,
		opts:         opts,
		started:      time.Now(),
		flash:        ui.NewFlashModel(),
		flashBar:     ui.NewFlashBar(theme),
		crumbs:       ui.NewCrumbs(theme),
		menu:         ui.NewMenu(theme),
		profileInfo:  ui.NewProfileInfo(theme),
		prompt:       ui.NewPrompt(theme),
		statusBar:    views.NewStatusBar(),
		projects:     views.NewProjectList(theme),
		project:      views.NewProjectView(theme, md),
		transcript:   views.NewTranscriptView(theme, md),
		upload:       views.NewUploadForm(theme),
		confirm:      views.NewConfirm(theme),
		info:         views.NewProjectInfo(theme),
		help:         views.NewHelpView(theme),
		lastStoreErr: make(map[string]string),
		ctx:          ctx,
		cancel:       cancel,
	}
	a.components = map[string]ui.Component{
		pageProjects: a.projects,
		pageProject:  a.project,
		pageChat:     a.transcript,
		pageHelp:     a.help,
		pageUpload:   a.upload,
		pageConfirm:  a.confirm,
		pageInfo:     a.info,
	}

	a.statusBar.SetBackend(opts.Profile, opts.APIURL)
	a.setupBindings()
	a.setupCallbacks()
	a.setupLayout()

	return a
}

func (a *App) setupBindings() {
	r := a.registry
	r.AddGlobal("command", &keys.Action{Key: tcell.KeyRune, Rune: ':', Handler: func() { a.showPrompt(ui.PromptCommand) }})
	r.AddGlobal("dismiss", &keys.Action{
		Key: tcell.KeyRune, Rune: 'x', Description: "Dismiss", Visible: true,
		Handler: a.dismissError,
	})
	r.AddGlobal("help", &keys.Action{Key: tcell.KeyRune, Rune: '?', Handler: func() { a.push(pageHelp, "") }})
	r.AddGlobal("quit", &keys.Action{Key: tcell.KeyRune, Rune: 'q', Handler: a.back})
	r.AddGlobal("refresh", &keys.Action{Key: tcell.KeyRune, Rune: 'r', Handler: a.refresh})

	r.AddView(pageProjects, "filter", &keys.Action{Key: tcell.KeyRune, Rune: '/', Handler: func() { a.showPrompt(ui.PromptFilter) }})
	r.AddView(pageProjects, "new", &keys.Action{Key: tcell.KeyRune, Rune: 'n', Handler: a.promptNew})
	r.AddView(pageProjects, "clear", &keys.Action{Key: tcell.KeyRune, Rune: '0', Handler: a.projects.ClearFilter})
	for n := 1; n <= 9; n++ {
		n := n
		r.AddView(pageProjects, fmt.Sprintf("jump%d", n), &keys.Action{
			Key: tcell.KeyRune, Rune: rune('0' + n),
			Handler: func() {
				if p, ok := a.projects.ProjectByIndex(n); ok {
					a.openProject(p)
				}
			},
		})
		r.AddView(pageProject, fmt.Sprintf("jump%d", n), &keys.Action{
			Key: tcell.KeyRune, Rune: rune('0' + n),
			Handler: func() {
				if c, ok := a.project.Chats.ChatByIndex(n); ok {
					a.openChat(c)
				}
			},
		})
	}

	r.AddView(pageProject, "filter", &keys.Action{Key: tcell.KeyRune, Rune: '/', Handler: func() { a.showPrompt(ui.PromptFilter) }})
	r.AddView(pageProject, "new", &keys.Action{Key: tcell.KeyRune, Rune: 'n', Handler: a.promptNew})
	r.AddView(pageProject, "focus", &keys.Action{Key: tcell.KeyTab, Handler: a.cycleProjectFocus})
	r.AddView(pageProject, "select", &keys.Action{Key: tcell.KeyRune, Rune: ' ', Handler: a.toggleSelectedFile})
	r.AddView(pageProject, "upload", &keys.Action{Key: tcell.KeyRune, Rune: 'u', Handler: func() {
		if files := a.vm.Files(); files != nil {
			files.OpenUpload()
		}
	}})
	r.AddView(pageProject, "delete", &keys.Action{Key: tcell.KeyRune, Rune: 'D', Handler: a.requestDelete})
	r.AddView(pageProject, "generate", &keys.Action{Key: tcell.KeyRune, Rune: 'g', Handler: func() { a.app.SetFocus(a.project.Prompt()) }})
	r.AddView(pageProject, "details", &keys.Action{Key: tcell.KeyRune, Rune: 'd', Handler: a.showInfo})

	r.AddView(pageChat, "compose", &keys.Action{Key: tcell.KeyRune, Rune: 'i', Handler: func() { a.app.SetFocus(a.transcript.Composer()) }})
}

func (a *App) setupCallbacks() {
	a.projects.SetSelectedFunc(func(row, _ int) {
		if p, ok := a.projects.ProjectByIndex(row); ok {
			a.openProject(p)
		}
	})
	a.project.Chats.SetSelectedFunc(func(row, _ int) {
		if c, ok := a.project.Chats.ChatByIndex(row); ok {
			a.openChat(c)
		}
	})
	a.project.Files.SetSelectedFunc(func(int, int) { a.toggleSelectedFile() })

	a.project.SetOnGenerate(func(prompt string) {
		files := a.vm.Files()
		if files == nil {
			return
		}
		ctx := a.vm.ProjectContext()
		go func() {
			if _, err := files.Generate(ctx, prompt); errors.Is(err, contextfiles.ErrEmptyPrompt) {
				a.queueFlash(ui.FlashWarn, err.Error())
			}
		}()
	})

	a.transcript.SetOnInput(func(text string) {
		if tr := a.vm.Transcript(); tr != nil {
			tr.SetInput(text)
		}
	})
	a.transcript.SetOnSend(func(text string) {
		tr := a.vm.Transcript()
		if tr == nil {
			return
		}
		tr.SetInput(text)
		ctx := a.vm.ChatContext()
		go func() {
			err := tr.Send(ctx)
			if errors.Is(err, chat.ErrEmptyMessage) || errors.Is(err, chat.ErrSendInFlight) {
				a.queueFlash(ui.FlashWarn, err.Error())
			}
		}()
	})

	a.upload.SetOnSubmit(func(path, name string) {
		files := a.vm.Files()
		if files == nil {
			return
		}
		ctx := a.vm.ProjectContext()
		go func() { _, _ = files.Upload(ctx, path, name) }()
	})
	a.upload.SetOnCancel(a.cancelUpload)
	a.upload.SetCancelFunc(a.cancelUpload)

	a.prompt.SetOnSubmit(func(mode ui.PromptMode, text string) {
		a.hidePrompt()
		if mode == ui.PromptCommand {
			a.runCommand(ParseCommand(text))
		}
	})
	a.prompt.SetOnChange(func(mode ui.PromptMode, text string) {
		if mode == ui.PromptFilter {
			a.applyFilter(text)
		}
	})
	a.prompt.SetOnCancel(func() {
		if a.prompt.Mode() == ui.PromptFilter {
			a.applyFilter("")
		}
		a.hidePrompt()
	})

	a.pages.SetOnChange(func(stack []ui.Page) {
		a.crumbs.Update(stack)
		a.updateMenu()
	})
}

func (a *App) setupLayout() {
	a.pages.AddPage(pageProjects, a.projects, true, false)
	a.pages.AddPage(pageProject, a.project, true, false)
	a.pages.AddPage(pageChat, a.transcript, true, false)
	a.pages.AddPage(pageHelp, a.help, true, false)
	a.pages.AddPage(pageUpload, center(a.upload, 72, 9), true, false)
	a.pages.AddPage(pageConfirm, a.confirm, true, false)
	a.pages.AddPage(pageInfo, a.info, true, false)

	header := tview.NewFlex().
		AddItem(a.profileInfo, 44, 0, false).
		AddItem(a.menu, 0, 1, false).
		AddItem(ui.NewLogo(a.theme), 26, 0, false)

	a.root = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(header, 6, 0, false).
		AddItem(a.prompt, 0, 0, false).
		AddItem(a.pages, 0, 1, true).
		AddItem(a.crumbs, 1, 0, false).
		AddItem(a.flashBar, 1, 0, false).
		AddItem(a.statusBar, 1, 0, false)

	a.app.SetRoot(a.root, true)
	a.app.SetInputCapture(a.handleKey)
	a.pages.Reset(pageProjects, "Projects")
	a.updateHeader()
}

func center(p tview.Primitive, width, height int) tview.Primitive {
	return tview.NewFlex().
		AddItem(nil, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexRow).
			AddItem(nil, 0, 1, false).
			AddItem(p, height, 0, true).
			AddItem(nil, 0, 1, false), width, 0, true).
		AddItem(nil, 0, 1, false)
}

func (a *App) handleKey(event *tcell.EventKey) *tcell.EventKey {
	if event.Key() == tcell.KeyCtrlC {
		a.Stop()
		return nil
	}
	// The prompt handles its own Enter and Esc.
	if a.promptOpen {
		return event
	}

	currentPage := a.pages.Current()
	switch currentPage {
	case pageUpload:
		if event.Key() == tcell.KeyEscape {
			a.cancelUpload()
			return nil
		}
		return event
	case pageConfirm:
		return event
	}

	// Let text input widgets handle all keys normally.
	if _, ok := a.app.GetFocus().(*tview.InputField); ok {
		if event.Key() == tcell.KeyEscape {
			a.focusPage()
			return nil
		}
		return event
	}

	if event.Key() == tcell.KeyEscape {
		a.back()
		return nil
	}
	if a.registry.HandleEvent(currentPage, event) {
		return nil
	}
	return event
}

func (a *App) push(name, label string) {
	if a.pages.Current() == name {
		return
	}
	if label == "" {
		if c, ok := a.components[name]; ok {
			label = c.Name()
		}
	}
	a.pages.Push(name, label)
	a.focusPage()
}

// back leaves the current page, unmounting it if it owns state. On the
// root page it quits.
func (a *App) back() {
	switch a.pages.Current() {
	case pageProjects:
		a.Stop()
		return
	case pageChat:
		a.vm.CloseChat()
	case pageProject:
		a.vm.CloseProject()
		a.project.Chats.ClearFilter()
	}
	a.pages.Pop()
	a.focusPage()
}

func (a *App) focusPage() {
	switch a.pages.Current() {
	case pageProjects:
		a.app.SetFocus(a.projects)
	case pageProject:
		a.app.SetFocus(a.project.Chats)
	case pageChat:
		a.app.SetFocus(a.transcript.Messages())
	case pageHelp:
		a.app.SetFocus(a.help)
	case pageUpload:
		a.app.SetFocus(a.upload)
	case pageConfirm:
		a.app.SetFocus(a.confirm)
	case pageInfo:
		a.app.SetFocus(a.info)
	}
}

func (a *App) showPrompt(mode ui.PromptMode) {
	a.prompt.Activate(mode)
	a.root.ResizeItem(a.prompt, 3, 0)
	a.promptOpen = true
	a.app.SetFocus(a.prompt)
}

func (a *App) hidePrompt() {
	a.root.ResizeItem(a.prompt, 0, 0)
	a.promptOpen = false
	a.focusPage()
}

func (a *App) promptNew() {
	a.showPrompt(ui.PromptCommand)
	a.prompt.SetText(CmdNew + " ")
}

func (a *App) applyFilter(text string) {
	switch a.pages.Current() {
	case pageProjects:
		a.projects.SetFilter(text)
	case pageProject:
		a.project.Chats.SetFilter(text)
	}
}

func (a *App) openProject(p api.Project) {
	files := a.vm.OpenProject(p)
	ctx := a.vm.ProjectContext()
	a.project.SetProject(p)
	a.project.Chats.Update(a.vm.Chats.Snapshot())
	a.project.UpdateFiles(files.Snapshot())

	a.pages.PopTo(pageProjects)
	a.push(pageProject, p.Name)
	a.logger.Debug("project opened", zap.String("project_id", p.ID))

	go func() {
		if err := a.vm.RefreshProject(); err != nil && ctx.Err() == nil {
			a.logger.Warn("project refresh failed", zap.Error(err))
		}
	}()
}

func (a *App) openChat(c api.Chat) {
	tr := a.vm.OpenChat(c.ID, c.Name)
	ctx := a.vm.ChatContext()
	a.transcript.Update(tr.Snapshot())

	a.pages.PopTo(pageProject)
	a.push(pageChat, c.Name)

	go func() { _ = tr.Open(ctx) }()
}

func (a *App) showInfo() {
	p := a.vm.ActiveProject()
	if p == nil {
		return
	}
	files := 0
	if m := a.vm.Files(); m != nil {
		files = len(m.Snapshot().Files)
	}
	a.info.Update(p, len(a.vm.Chats.Snapshot().Data), files)
	a.push(pageInfo, "")
}

func (a *App) cycleProjectFocus() {
	targets := a.project.FocusTargets()
	focused := a.app.GetFocus()
	for i, t := range targets {
		if t == focused {
			a.app.SetFocus(targets[(i+1)%len(targets)])
			return
		}
	}
	a.app.SetFocus(targets[0])
}

func (a *App) toggleSelectedFile() {
	files := a.vm.Files()
	if files == nil || a.app.GetFocus() != a.project.Files {
		return
	}
	if f, ok := a.project.Files.SelectedFile(); ok {
		files.ToggleSelected(f.ID)
	}
}

func (a *App) requestDelete() {
	files := a.vm.Files()
	if files == nil || a.app.GetFocus() != a.project.Files {
		a.flash.Info("Focus the context files (Tab) to delete one")
		a.flashBar.Update(a.flash.Get())
		return
	}
	if f, ok := a.project.Files.SelectedFile(); ok {
		files.RequestDelete(f.ID)
	}
}

func (a *App) cancelUpload() {
	if files := a.vm.Files(); files != nil {
		files.CloseUpload()
	}
}

func (a *App) dismissError() {
	a.flash.Clear()
	a.flashBar.Update(nil)
	switch a.pages.Current() {
	case pageProjects:
		a.vm.Projects.DismissError()
	case pageProject:
		a.vm.Chats.DismissError()
		if files := a.vm.Files(); files != nil {
			files.DismissError()
		}
	case pageChat:
		if tr := a.vm.Transcript(); tr != nil {
			tr.DismissError()
		}
	}
}

func (a *App) refresh() {
	switch a.pages.Current() {
	case pageProjects:
		go func() { _ = a.vm.LoadProjects(a.ctx) }()
	case pageProject:
		go func() { _ = a.vm.RefreshProject() }()
	case pageChat:
		if tr := a.vm.Transcript(); tr != nil {
			ctx := a.vm.ChatContext()
			go func() { _ = tr.Refresh(ctx) }()
		}
	}
}

func (a *App) runCommand(cmd Command) {
	switch cmd.Name {
	case CmdProject:
		p, err := a.vm.FindProject(cmd.Args)
		if err != nil {
			a.setFlash(ui.FlashWarn, err.Error())
			return
		}
		a.openProject(p)
	case CmdChat:
		if a.vm.ActiveProject() == nil {
			a.setFlash(ui.FlashWarn, "open a project first")
			return
		}
		c, err := a.vm.FindChat(cmd.Args)
		if err != nil {
			a.setFlash(ui.FlashWarn, err.Error())
			return
		}
		a.openChat(c)
	case CmdNew:
		a.create(cmd.Args)
	case CmdUpload:
		files := a.vm.Files()
		if files == nil {
			a.setFlash(ui.FlashWarn, "open a project first")
			return
		}
		path, name := cmd.UploadArgs()
		if err := contextfiles.CheckSelectable(path); err != nil {
			a.setFlash(ui.FlashWarn, err.Error())
			return
		}
		ctx := a.vm.ProjectContext()
		go func() {
			if f, err := files.Upload(ctx, path, name); err == nil {
				a.queueFlash(ui.FlashInfo, "Uploaded "+f.OriginalName)
			}
		}()
	case CmdRefresh:
		a.refresh()
	case CmdHelp:
		a.push(pageHelp, "")
	case CmdQuit:
		a.Stop()
	default:
		a.setFlash(ui.FlashWarn, "unknown command: "+cmd.Name)
	}
}

// create makes a project on the projects page and a chat everywhere else.
func (a *App) create(name string) {
	if a.vm.ActiveProject() == nil {
		go func() {
			p, err := a.vm.CreateProject(a.ctx, name, "")
			if err != nil {
				a.queueFlash(ui.FlashErr, err.Error())
				return
			}
			a.queueFlash(ui.FlashInfo, "Created project "+p.Name)
		}()
		return
	}
	ctx := a.vm.ProjectContext()
	go func() {
		c, err := a.vm.CreateChat(ctx, name)
		if err != nil {
			a.queueFlash(ui.FlashErr, err.Error())
			return
		}
		a.queueFlash(ui.FlashInfo, "Created chat "+c.Name)
	}()
}

func (a *App) setFlash(level ui.FlashLevel, msg string) {
	switch level {
	case ui.FlashInfo:
		a.flash.Info(msg)
	case ui.FlashWarn:
		a.flash.Warn(msg)
	default:
		a.flash.Err(msg)
	}
	a.flashBar.Update(a.flash.Get())
}

func (a *App) queueFlash(level ui.FlashLevel, msg string) {
	a.app.QueueUpdateDraw(func() { a.setFlash(level, msg) })
}

func (a *App) updateMenu() {
	var hints []ui.MenuHint
	current := a.pages.Current()
	if c, ok := a.components[current]; ok {
		hints = c.Hints()
	}
	a.menu.Update(mergeHints(hints, a.registry.Hints(current)))
}

// mergeHints appends extra hints whose key is not already listed.
func mergeHints(hints, extra []ui.MenuHint) []ui.MenuHint {
	seen := make(map[string]bool, len(hints))
	out := make([]ui.MenuHint, 0, len(hints)+len(extra))
	for _, h := range hints {
		seen[h.Key] = true
		out = append(out, h)
	}
	for _, h := range extra {
		if !seen[h.Key] {
			seen[h.Key] = true
			out = append(out, h)
		}
	}
	return out
}

func (a *App) updateHeader() {
	a.profileInfo.Update(&ui.ProfileData{
		Profile:  a.opts.Profile,
		APIURL:   a.opts.APIURL,
		Projects: len(a.vm.Projects.Snapshot().Data),
		Chats:    len(a.vm.Chats.Snapshot().Data),
		InFlight: a.statusBar.InFlight(),
		Uptime:   time.Since(a.started),
	})
}

// watch forwards bus events to the UI goroutine until the app stops.
func (a *App) watch() {
	storeCh, unsubStore := a.bus.Subscribe("store.", 64)
	viewCh, unsubView := a.bus.Subscribe("view.", 64)
	opCh, unsubOp := a.bus.Subscribe("op.", 64)
	go func() {
		defer unsubStore()
		defer unsubView()
		defer unsubOp()
		for {
			var evt bus.Event
			select {
			case <-a.ctx.Done():
				return
			case evt = <-storeCh:
			case evt = <-viewCh:
			case evt = <-opCh:
			}
			a.app.QueueUpdateDraw(func() { a.onEvent(evt) })
		}
	}()
}

func (a *App) onEvent(evt bus.Event) {
	switch evt.Kind {
	case bus.KindProjectsChanged:
		s := a.vm.Projects.Snapshot()
		a.projects.Update(s)
		a.surfaceStoreError("projects", s.Error)
	case bus.KindChatsChanged:
		s := a.vm.Chats.Snapshot()
		a.project.Chats.Update(s)
		a.surfaceStoreError("chats", s.Error)
	case bus.KindTranscriptChanged:
		if tr := a.vm.Transcript(); tr != nil && evt.Payload == tr.Snapshot().ChatID {
			a.transcript.Update(tr.Snapshot())
			a.pages.Relabel(pageChat, tr.Snapshot().Title)
		}
	case bus.KindFilesChanged:
		a.syncFiles()
	case bus.KindOpPhase:
		if pc, ok := evt.Payload.(status.PhaseChange); ok {
			a.statusBar.Track(pc)
		}
	}
	a.updateHeader()
}

func (a *App) surfaceStoreError(name, msg string) {
	if msg != "" && msg != a.lastStoreErr[name] {
		a.setFlash(ui.FlashErr, msg)
	}
	a.lastStoreErr[name] = msg
}

// syncFiles renders the context file state and shows or hides the upload
// form and the delete confirmation to match it.
func (a *App) syncFiles() {
	files := a.vm.Files()
	if files == nil {
		return
	}
	s := files.Snapshot()
	a.project.UpdateFiles(s)

	switch current := a.pages.Current(); {
	case s.UploadOpen && current == pageProject:
		a.upload.Reset()
		a.push(pageUpload, "")
	case s.UploadOpen && current == pageUpload:
		switch {
		case s.Uploading:
			a.upload.SetStatus("Uploading…")
		default:
			a.upload.SetStatus(s.Error)
		}
	case !s.UploadOpen && current == pageUpload:
		a.pages.Pop()
		a.app.SetFocus(a.project.Files)
	case s.PendingDelete != "" && current == pageProject:
		name := s.PendingDelete
		for _, f := range s.Files {
			if f.ID == s.PendingDelete {
				name = f.ContextName
				if name == "" {
					name = f.OriginalName
				}
			}
		}
		ctx := a.vm.ProjectContext()
		a.confirm.Ask(fmt.Sprintf("Delete context file %q?", name), func(yes bool) {
			if !yes {
				files.CancelDelete()
				return
			}
			go func() { _ = files.ConfirmDelete(ctx) }()
		})
		a.push(pageConfirm, "")
	case s.PendingDelete == "" && current == pageConfirm:
		a.pages.Pop()
		a.app.SetFocus(a.project.Files)
	}
}

// Run loads the project list, offers the last opened project and starts
// the TUI. It blocks until the app stops.
func (a *App) Run() error {
	a.watch()
	go func() {
		if err := a.vm.LoadProjects(a.ctx); err != nil {
			a.logger.Warn("initial project load failed", zap.Error(err))
			return
		}
		if p, ok := a.vm.LastProject(); ok {
			a.app.QueueUpdateDraw(func() {
				if a.projects.SelectID(p.ID) {
					a.setFlash(ui.FlashInfo, "Last opened: "+p.Name+" (Enter to reopen)")
				}
			})
		}
	}()
	a.startRefreshLoop()

	return a.app.Run()
}

func (a *App) startRefreshLoop() {
	ticker := time.NewTicker(refreshInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				a.app.QueueUpdateDraw(func() {
					a.updateHeader()
					a.flashBar.Update(a.flash.Get())
				})
			case <-a.ctx.Done():
				return
			}
		}
	}()
}

// Stop gracefully shuts down the TUI.
func (a *App) Stop() {
	a.cancel()
	a.vm.CloseProject()
	a.app.Stop()
}
