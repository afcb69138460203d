package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ccumaco/ai-frontend/internal/api"
	"github.com/ccumaco/ai-frontend/internal/app"
	"github.com/ccumaco/ai-frontend/internal/bus"
	"github.com/ccumaco/ai-frontend/internal/journal"
	"github.com/ccumaco/ai-frontend/internal/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// deps are the components a command may use.
type deps struct {
	client   *api.Client
	projects *store.Projects
	chats    *store.Chats
	journal  *journal.Journal
	bus      *bus.Bus
	logger   *zap.Logger
}

// env is everything a command runs against.
type env struct {
	deps
	out    *printer
	in     io.Reader
	errOut io.Writer
	yes    bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("aifrontctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	profileFlag := fs.String("profile", "", "profile name (overrides config default)")
	apiURLFlag := fs.String("api-url", "", "backend base URL (overrides env and profile)")
	jsonFlag := fs.Bool("json", false, "output in JSON format")
	yamlFlag := fs.Bool("yaml", false, "output in YAML format")
	yesFlag := fs.Bool("yes", false, "do not ask before deleting")
	verboseFlag := fs.Bool("verbose", false, "mirror logs to stderr")
	fs.Usage = func() { printUsage(stderr) }
	if err := fs.Parse(args); err != nil {
		return 2
	}
	rest := fs.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return 2
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command: %s\n", rest[0])
		printUsage(stderr)
		return 2
	}

	format := formatHuman
	switch {
	case *jsonFlag && *yamlFlag:
		fmt.Fprintln(stderr, "error: --json and --yaml are exclusive")
		return 2
	case *jsonFlag:
		format = formatJSON
	case *yamlFlag:
		format = formatYAML
	}

	var d deps
	fxApp := fx.New(
		app.Module(app.Params{
			Profile: *profileFlag,
			APIURL:  *apiURLFlag,
			Binary:  "aifrontctl",
			Console: *verboseFlag,
		}),
		fx.Populate(&d.client, &d.projects, &d.chats, &d.journal, &d.bus, &d.logger),
	)
	if err := fxApp.Err(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer stopCancel()
		_ = fxApp.Stop(stopCtx)
	}()

	e := &env{deps: d, out: newPrinter(stdout, format), in: stdin, errOut: stderr, yes: *yesFlag}
	if err := cmd.run(context.Background(), e, rest[1:]); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		var ue usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(stderr, "usage: aifrontctl %s\n", cmd.usage)
			return 2
		}
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: aifrontctl [--profile <name>] [--api-url <url>] [--json|--yaml] [--yes] <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "commands:")
	for _, name := range commandOrder {
		c := commands[name]
		fmt.Fprintf(w, "  %-52s %s\n", c.usage, c.summary)
	}
}
