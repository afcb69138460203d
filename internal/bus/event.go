package bus

import (
	"strings"
	"time"
)

// Event kinds published by the stores, the operation machines and the views.
// Subscribers filter by prefix, so "store." matches every collection change.
const (
	KindProjectsChanged   = "store.projects.changed"
	KindChatsChanged      = "store.chats.changed"
	KindTranscriptChanged = "view.transcript.changed"
	KindFilesChanged      = "view.files.changed"
	KindOpPhase           = "op.phase"
)

// Event represents a domain event published on the bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// StoreChanged announces a collection mutation. kind must be one of the
// "store." kinds; change is the store's change record.
func (b *Bus) StoreChanged(kind string, change any) {
	if !strings.HasPrefix(kind, "store.") {
		kind = "store." + kind
	}
	b.emit(kind, change)
}

// TranscriptChanged announces new state for the open chat chatID.
func (b *Bus) TranscriptChanged(chatID string) {
	b.emit(KindTranscriptChanged, chatID)
}

// FilesChanged announces new context file state for projectID.
func (b *Bus) FilesChanged(projectID string) {
	b.emit(KindFilesChanged, projectID)
}

// PhaseChanged announces an operation lifecycle transition.
func (b *Bus) PhaseChanged(change any) {
	b.emit(KindOpPhase, change)
}

