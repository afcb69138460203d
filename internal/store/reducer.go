package store

import "slices"

// State is the observable state of a collection. An empty Error means no error.
type State[T any] struct {
	Data    []T
	Loading bool
	Error   string
}

// ActionKind names one lifecycle transition of a collection.
type ActionKind int

const (
	FetchPending ActionKind = iota
	FetchFulfilled
	FetchRejected
	CreatePending
	CreateFulfilled
	CreateRejected
	Clear
	Replace
	DismissError
)

var actionNames = [...]string{
	FetchPending:    "fetch/pending",
	FetchFulfilled:  "fetch/fulfilled",
	FetchRejected:   "fetch/rejected",
	CreatePending:   "create/pending",
	CreateFulfilled: "create/fulfilled",
	CreateRejected:  "create/rejected",
	Clear:           "clear",
	Replace:         "replace",
	DismissError:    "dismissError",
}

func (k ActionKind) String() string {
	if int(k) < len(actionNames) {
		return actionNames[k]
	}
	return "unknown"
}

// Action is the input to Reduce. Data carries a fetched or replacement list,
// Item a created entity and Error a rejection message.
type Action[T any] struct {
	Kind  ActionKind
	Data  []T
	Item  T
	Error string
}

// Reduce returns the state after applying a. It never mutates s: list
// results are copied so snapshots handed out earlier stay valid.
func Reduce[T any](s State[T], a Action[T]) State[T] {
	switch a.Kind {
	case FetchPending, CreatePending:
		s.Loading = true
		s.Error = ""
	case FetchFulfilled:
		s.Loading = false
		s.Data = cloneList(a.Data)
	case FetchRejected, CreateRejected:
		s.Loading = false
		s.Error = a.Error
	case CreateFulfilled:
		s.Loading = false
		next := make([]T, len(s.Data), len(s.Data)+1)
		copy(next, s.Data)
		s.Data = append(next, a.Item)
	case Clear:
		return State[T]{Data: []T{}}
	case Replace:
		s.Data = cloneList(a.Data)
		s.Loading = false
		s.Error = ""
	case DismissError:
		s.Error = ""
	}
	return s
}

func cloneList[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return slices.Clone(in)
}
