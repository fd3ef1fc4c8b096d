// Package snapshot gives suspended tasks a plain-data form the host can
// keep outside the process: a versioned structure of task type, captured
// fields, current state id and an optional awaited-future reference.
// Restoring rebuilds an equivalent in-memory task without replaying any
// earlier step.
package snapshot

import (
	"errors"
	"fmt"

	yaml "github.com/goccy/go-yaml"
	"github.com/google/uuid"

	"github.com/apples/silk/internal/sched"
)

// Version is the current snapshot structure version.
const Version = 1

var (
	// ErrVersion means the snapshot was written by an incompatible version.
	ErrVersion = errors.New("snapshot: unsupported version")

	// ErrUnknownTask means no restore function is registered for the
	// snapshot's task type.
	ErrUnknownTask = errors.New("snapshot: unknown task type")

	// ErrUnknownFuture means the awaited-future reference does not resolve
	// to a live future.
	ErrUnknownFuture = errors.New("snapshot: awaited future not present")
)

// Snapshot describes one suspended task. Fields hold the task's captured
// plain-data state; State and Awaiting locate the resumption point.
type Snapshot struct {
	Version  int            `yaml:"version"`
	TaskType string         `yaml:"task_type"`
	State    string         `yaml:"state,omitempty"`
	Awaiting string         `yaml:"awaiting,omitempty"` // future uuid
	Fields   map[string]any `yaml:"fields,omitempty"`
}

// Marshal encodes s as YAML, stamping the current version.
func Marshal(s *Snapshot) ([]byte, error) {
	s.Version = Version
	return yaml.Marshal(s)
}

// Unmarshal decodes a snapshot and rejects incompatible versions.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("snapshot: decode: %w", err)
	}
	if s.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrVersion, s.Version)
	}
	return &s, nil
}

// Futures resolves saved future references to the live futures the host
// still holds. The host adds every future a restored task may reference.
type Futures map[uuid.UUID]sched.Awaitable

// Add indexes a live future by its identity.
func (fs Futures) Add(a sched.Awaitable) {
	fs[a.ID()] = a
}

// Awaited resolves the snapshot's awaited-future reference, or nil when the
// task was not suspended on a future.
func (s *Snapshot) Awaited(futures Futures) (sched.Awaitable, error) {
	if s.Awaiting == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s.Awaiting)
	if err != nil {
		return nil, fmt.Errorf("snapshot: awaited reference: %w", err)
	}
	a, ok := futures[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFuture, id)
	}
	return a, nil
}

// Snapshotter is implemented by tasks that can describe themselves as a
// Snapshot.
type Snapshotter interface {
	Snapshot() (*Snapshot, error)
}

// RestoreFunc rebuilds a task from its snapshot and the live futures it may
// still reference.
type RestoreFunc func(s *Snapshot, futures Futures) (sched.Task, error)

// Registry maps task type identifiers to restore functions.
type Registry struct {
	byType map[string]RestoreFunc
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[string]RestoreFunc)}
}

// Register binds a task type to its restore function.
func (r *Registry) Register(taskType string, fn RestoreFunc) {
	r.byType[taskType] = fn
}

// Restore rebuilds the task described by s. Every failure here (unknown
// task type, unresolved state or future, shape mismatch) is a configuration
// error the caller must surface, never absorb into a task failure.
func (r *Registry) Restore(s *Snapshot, futures Futures) (sched.Task, error) {
	fn, ok := r.byType[s.TaskType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTask, s.TaskType)
	}
	t, err := fn(s, futures)
	if err != nil {
		return nil, fmt.Errorf("snapshot: restore %q: %w", s.TaskType, err)
	}
	return t, nil
}

// Int reads an integer captured field, tolerating the numeric types YAML
// decoding produces.
func (s *Snapshot) Int(name string) (int, error) {
	v, ok := s.Fields[name]
	if !ok {
		return 0, fmt.Errorf("snapshot: missing field %q", name)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("snapshot: field %q is not an integer", name)
	}
}
