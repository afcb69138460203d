package tui

import "strings"

// Commands accepted in command mode.
const (
	CmdProject = "project"
	CmdChat    = "chat"
	CmdNew     = "new"
	CmdUpload  = "upload"
	CmdRefresh = "refresh"
	CmdHelp    = "help"
	CmdQuit    = "quit"
)

var aliases = map[string]string{
	"p":    CmdProject,
	"c":    CmdChat,
	"n":    CmdNew,
	"u":    CmdUpload,
	"r":    CmdRefresh,
	"h":    CmdHelp,
	"q":    CmdQuit,
	"q!":   CmdQuit,
	"exit": CmdQuit,
}

// Command represents a parsed command.
type Command struct {
	Name string
	Args string
}

// ParseCommand parses a command string (without the leading ':').
// Aliases are resolved to their full name.
func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)
	parts := strings.SplitN(input, " ", 2)
	cmd := Command{Name: strings.ToLower(parts[0])}
	if full, ok := aliases[cmd.Name]; ok {
		cmd.Name = full
	}
	if len(parts) > 1 {
		cmd.Args = strings.TrimSpace(parts[1])
	}
	return cmd
}

// UploadArgs splits the arguments of an upload command into a path and an
// optional context name. A path containing spaces may be double-quoted.
func (c Command) UploadArgs() (path, name string) {
	args := strings.TrimSpace(c.Args)
	if strings.HasPrefix(args, `"`) {
		if end := strings.Index(args[1:], `"`); end >= 0 {
			return args[1 : end+1], strings.TrimSpace(args[end+2:])
		}
	}
	path, name, _ = strings.Cut(args, " ")
	return path, strings.TrimSpace(name)
}
