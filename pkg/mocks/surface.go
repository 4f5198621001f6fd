package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/user/vidmark/pkg/ports"
)

// Surface is a scripted ports.Surface. Each NextCommand call pops one entry of Commands;
// once the script is drained it returns CommandNext so a session always ends.
type Surface struct {
	mu sync.Mutex

	Commands        []ports.Command
	NextCommandFunc func(ctx context.Context, timeout time.Duration) (ports.Command, error)
	ShowFunc        func(frame ports.Frame) error

	Shown    []ports.Frame
	Statuses []string
	closed   bool
}

// NewSurface creates a Surface that replays commands in order.
func NewSurface(commands ...ports.Command) *Surface {
	return &Surface{Commands: commands}
}

func (m *Surface) Show(frame ports.Frame) error {
	m.mu.Lock()
	m.Shown = append(m.Shown, frame)
	m.mu.Unlock()
	if m.ShowFunc != nil {
		return m.ShowFunc(frame)
	}
	return nil
}

func (m *Surface) SetStatus(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Statuses = append(m.Statuses, status)
}

func (m *Surface) NextCommand(ctx context.Context, timeout time.Duration) (ports.Command, error) {
	if m.NextCommandFunc != nil {
		return m.NextCommandFunc(ctx, timeout)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Commands) == 0 {
		return ports.Command{Kind: ports.CommandNext}, nil
	}
	cmd := m.Commands[0]
	m.Commands = m.Commands[1:]
	return cmd, nil
}

func (m *Surface) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *Surface) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// LastStatus returns the most recent status text.
func (m *Surface) LastStatus() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Statuses) == 0 {
		return ""
	}
	return m.Statuses[len(m.Statuses)-1]
}

var _ ports.Surface = (*Surface)(nil)

// Ticks returns n CommandNone entries, one idle tick each.
func Ticks(n int) []ports.Command {
	out := make([]ports.Command, n)
	return out
}

// Script concatenates command lists.
func Script(parts ...[]ports.Command) []ports.Command {
	var out []ports.Command
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Cmd builds a single-entry command list.
func Cmd(kind ports.CommandKind, slot int) []ports.Command {
	return []ports.Command{{Kind: kind, Slot: slot}}
}
