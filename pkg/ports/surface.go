package ports

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// CommandKind identifies an operator command.
type CommandKind int

const (
	// CommandNone means no command arrived before the tick elapsed.
	CommandNone CommandKind = iota
	CommandQuit
	CommandTogglePause
	CommandMark
	CommandRecall
	CommandNext
	CommandClear
	CommandStepForward
	CommandStepBackward
)

var commandNames = map[CommandKind]string{
	CommandNone:         "none",
	CommandQuit:         "quit",
	CommandTogglePause:  "toggle-pause",
	CommandMark:         "mark",
	CommandRecall:       "recall",
	CommandNext:         "next",
	CommandClear:        "clear",
	CommandStepForward:  "step-forward",
	CommandStepBackward: "step-backward",
}

// String returns the command name used in key maps.
func (k CommandKind) String() string {
	if name, ok := commandNames[k]; ok {
		return name
	}
	return "unknown"
}

// Command is one operator command. Slot is set for CommandMark and CommandRecall (1-based).
type Command struct {
	Kind CommandKind
	Slot int
}

// String returns a key map style name such as "mark-2" or "quit".
func (c Command) String() string {
	if c.Kind == CommandMark || c.Kind == CommandRecall {
		return fmt.Sprintf("%s-%d", c.Kind, c.Slot)
	}
	return c.Kind.String()
}

// ParseCommand parses names produced by Command.String.
func ParseCommand(name string) (Command, error) {
	for kind, n := range commandNames {
		if kind == CommandNone {
			continue
		}
		if kind != CommandMark && kind != CommandRecall {
			if name == n {
				return Command{Kind: kind}, nil
			}
			continue
		}
		rest, ok := strings.CutPrefix(name, n+"-")
		if !ok {
			continue
		}
		slot, err := strconv.Atoi(rest)
		if err != nil || slot < 1 {
			return Command{}, fmt.Errorf("invalid slot in command %q", name)
		}
		return Command{Kind: kind, Slot: slot}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q", name)
}

// Surface is the operator-facing display and input device of a session.
type Surface interface {
	// Show displays a frame.
	Show(frame Frame) error

	// SetStatus updates the status text (the window title in a GUI).
	SetStatus(status string)

	// NextCommand waits up to timeout for an operator command.
	// It returns a Command with Kind CommandNone when the timeout elapses.
	NextCommand(ctx context.Context, timeout time.Duration) (Command, error)

	// Close releases the surface.
	Close() error
}
