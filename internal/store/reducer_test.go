package store

import (
	"reflect"
	"testing"
)

type item struct {
	ID   string
	Name string
}

func TestReducePending(t *testing.T) {
	for _, kind := range []ActionKind{FetchPending, CreatePending} {
		t.Run(kind.String(), func(t *testing.T) {
			prev := State[item]{Data: []item{{ID: "a"}}, Error: "old"}
			got := Reduce(prev, Action[item]{Kind: kind})
			if !got.Loading {
				t.Error("Loading = false, want true")
			}
			if got.Error != "" {
				t.Errorf("Error = %q, want cleared", got.Error)
			}
			if !reflect.DeepEqual(got.Data, prev.Data) {
				t.Errorf("Data = %v, want unchanged", got.Data)
			}
		})
	}
}

func TestReduceFetchFulfilledReplaces(t *testing.T) {
	prev := State[item]{Data: []item{{ID: "stale"}, {ID: "b"}}, Loading: true}
	server := []item{{ID: "b"}, {ID: "c"}}

	got := Reduce(prev, Action[item]{Kind: FetchFulfilled, Data: server})
	if got.Loading {
		t.Error("Loading = true, want false")
	}
	if !reflect.DeepEqual(got.Data, server) {
		t.Errorf("Data = %v, want %v", got.Data, server)
	}

	// The reducer must copy: mutating the input afterwards is not visible.
	server[0].ID = "mutated"
	if got.Data[0].ID != "b" {
		t.Error("Data aliases the action's slice")
	}
}

func TestReduceFetchFulfilledNilIsEmpty(t *testing.T) {
	got := Reduce(State[item]{Data: []item{{ID: "a"}}}, Action[item]{Kind: FetchFulfilled})
	if got.Data == nil || len(got.Data) != 0 {
		t.Errorf("Data = %#v, want empty non-nil", got.Data)
	}
}

func TestReduceRejectedKeepsData(t *testing.T) {
	for _, kind := range []ActionKind{FetchRejected, CreateRejected} {
		t.Run(kind.String(), func(t *testing.T) {
			prev := State[item]{Data: []item{{ID: "a", Name: "A"}}, Loading: true}
			got := Reduce(prev, Action[item]{Kind: kind, Error: "boom"})
			if got.Loading {
				t.Error("Loading = true, want false")
			}
			if got.Error != "boom" {
				t.Errorf("Error = %q, want boom", got.Error)
			}
			if !reflect.DeepEqual(got.Data, prev.Data) {
				t.Errorf("Data = %v, want %v", got.Data, prev.Data)
			}
		})
	}
}

func TestReduceCreateFulfilledAppends(t *testing.T) {
	backing := make([]item, 1, 4)
	backing[0] = item{ID: "a"}
	prev := State[item]{Data: backing, Loading: true}

	got := Reduce(prev, Action[item]{Kind: CreateFulfilled, Item: item{ID: "z"}})
	want := []item{{ID: "a"}, {ID: "z"}}
	if !reflect.DeepEqual(got.Data, want) {
		t.Errorf("Data = %v, want %v", got.Data, want)
	}
	if got.Loading {
		t.Error("Loading = true, want false")
	}

	// Appending into spare capacity of the previous state would let a
	// second append overwrite this result.
	other := Reduce(prev, Action[item]{Kind: CreateFulfilled, Item: item{ID: "y"}})
	if got.Data[1].ID != "z" || other.Data[1].ID != "y" {
		t.Errorf("appends share a backing array: %v / %v", got.Data, other.Data)
	}
}

func TestReduceClearIdempotent(t *testing.T) {
	prev := State[item]{Data: []item{{ID: "a"}}, Loading: true, Error: "x"}
	once := Reduce(prev, Action[item]{Kind: Clear})
	twice := Reduce(once, Action[item]{Kind: Clear})

	want := State[item]{Data: []item{}}
	if !reflect.DeepEqual(once, want) {
		t.Errorf("once = %+v, want %+v", once, want)
	}
	if !reflect.DeepEqual(twice, once) {
		t.Errorf("twice = %+v, want %+v", twice, once)
	}
}

func TestReduceReplaceAndDismiss(t *testing.T) {
	prev := State[item]{Data: []item{{ID: "a"}}, Loading: true, Error: "x"}
	got := Reduce(prev, Action[item]{Kind: Replace, Data: []item{{ID: "r"}}})
	if got.Loading || got.Error != "" || len(got.Data) != 1 || got.Data[0].ID != "r" {
		t.Errorf("Replace = %+v", got)
	}

	dismissed := Reduce(State[item]{Error: "x", Loading: true}, Action[item]{Kind: DismissError})
	if dismissed.Error != "" || !dismissed.Loading {
		t.Errorf("DismissError = %+v, want only error cleared", dismissed)
	}
}

func TestActionKindString(t *testing.T) {
	if got := CreateRejected.String(); got != "create/rejected" {
		t.Errorf("String() = %q", got)
	}
	if got := ActionKind(99).String(); got != "unknown" {
		t.Errorf("String() = %q, want unknown", got)
	}
}
