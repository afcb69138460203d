package tui

import "testing"

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in       string
		wantName string
		wantArgs string
	}{
		{"quit", CmdQuit, ""},
		{"q", CmdQuit, ""},
		{"  H  ", CmdHelp, ""},
		{"project  Design system ", CmdProject, "Design system"},
		{"c kickoff", CmdChat, "kickoff"},
		{"new Roadmap", CmdNew, "Roadmap"},
		{"bogus x", "bogus", "x"},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseCommand(tt.in)
			if got.Name != tt.wantName || got.Args != tt.wantArgs {
				t.Errorf("ParseCommand(%q) = %+v, want {%s %s}", tt.in, got, tt.wantName, tt.wantArgs)
			}
		})
	}
}

func TestUploadArgs(t *testing.T) {
	tests := []struct {
		args     string
		wantPath string
		wantName string
	}{
		{"notes.md", "notes.md", ""},
		{"notes.md Style guide", "notes.md", "Style guide"},
		{`"my notes.md" Guide`, "my notes.md", "Guide"},
		{`"my notes.md"`, "my notes.md", ""},
		{`"unterminated.md`, `"unterminated.md`, ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.args, func(t *testing.T) {
			path, name := Command{Name: CmdUpload, Args: tt.args}.UploadArgs()
			if path != tt.wantPath || name != tt.wantName {
				t.Errorf("UploadArgs(%q) = %q, %q; want %q, %q", tt.args, path, name, tt.wantPath, tt.wantName)
			}
		})
	}
}
