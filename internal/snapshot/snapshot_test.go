package snapshot_test

import (
	"errors"
	"testing"

	"github.com/apples/silk/internal/sched"
	"github.com/apples/silk/internal/snapshot"
)

func TestMarshalRoundTrip(t *testing.T) {
	in := &snapshot.Snapshot{
		TaskType: "example/task",
		State:    "mid",
		Fields:   map[string]any{"remaining": 3, "label": "x"},
	}
	data, err := snapshot.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}

	out, err := snapshot.Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if out.Version != snapshot.Version {
		t.Fatalf("version = %d", out.Version)
	}
	if out.TaskType != in.TaskType || out.State != in.State {
		t.Fatalf("round trip mismatch: %+v", out)
	}
	n, err := out.Int("remaining")
	if err != nil || n != 3 {
		t.Fatalf("Int(remaining) = %d, %v", n, err)
	}
}

func TestUnmarshalRejectsVersion(t *testing.T) {
	_, err := snapshot.Unmarshal([]byte("version: 99\ntask_type: example\n"))
	if !errors.Is(err, snapshot.ErrVersion) {
		t.Fatalf("err = %v, want ErrVersion", err)
	}
}

func TestRegistryUnknownTaskType(t *testing.T) {
	r := snapshot.NewRegistry()
	_, err := r.Restore(&snapshot.Snapshot{TaskType: "nobody/home"}, snapshot.Futures{})
	if !errors.Is(err, snapshot.ErrUnknownTask) {
		t.Fatalf("err = %v, want ErrUnknownTask", err)
	}
}

func TestAwaitedResolution(t *testing.T) {
	f := sched.NewFuture[int]()
	futures := snapshot.Futures{}
	futures.Add(f)

	s := &snapshot.Snapshot{Awaiting: f.ID().String()}
	got, err := s.Awaited(futures)
	if err != nil {
		t.Fatal(err)
	}
	if got != sched.Awaitable(f) {
		t.Fatal("resolved wrong future")
	}

	// No reference at all is not an error.
	none := &snapshot.Snapshot{}
	if a, err := none.Awaited(futures); err != nil || a != nil {
		t.Fatalf("empty reference resolved to %v, %v", a, err)
	}

	// A dangling reference is a configuration error.
	dangling := &snapshot.Snapshot{Awaiting: sched.NewFuture[int]().ID().String()}
	if _, err := dangling.Awaited(futures); !errors.Is(err, snapshot.ErrUnknownFuture) {
		t.Fatalf("err = %v, want ErrUnknownFuture", err)
	}
}

func TestIntFieldShapes(t *testing.T) {
	s := &snapshot.Snapshot{Fields: map[string]any{
		"int": int(7), "u64": uint64(7), "f64": float64(7), "str": "seven",
	}}
	for _, name := range []string{"int", "u64", "f64"} {
		n, err := s.Int(name)
		if err != nil || n != 7 {
			t.Fatalf("Int(%s) = %d, %v", name, n, err)
		}
	}
	if _, err := s.Int("str"); err == nil {
		t.Fatal("string field read as integer")
	}
	if _, err := s.Int("absent"); err == nil {
		t.Fatal("missing field read as integer")
	}
}
