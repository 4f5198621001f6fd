package termsurface

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/user/vidmark/pkg/checkpoint"
	"github.com/user/vidmark/pkg/ports"
)

// Keymap maps an input token (one line of input) to a command.
type Keymap map[string]ports.Command

// DefaultKeymap returns the bindings for a variant, as command name to tokens.
func DefaultKeymap(variant checkpoint.Variant) map[string][]string {
	m := map[string][]string{
		"quit":          {"q", "esc"},
		"toggle-pause":  {"", "p", "space"},
		"next":          {"n"},
		"clear":         {"c"},
		"step-forward":  {"d"},
		"step-backward": {"a"},
	}
	k := variant.Slots()
	for i := 1; i <= k; i++ {
		m[fmt.Sprintf("mark-%d", i)] = []string{strconv.Itoa(i)}
		m[fmt.Sprintf("recall-%d", i)] = []string{"r" + strconv.Itoa(i)}
	}
	switch variant {
	case checkpoint.VariantPair:
		m["mark-1"] = append(m["mark-1"], "s")
		m["mark-2"] = append(m["mark-2"], "e")
	case checkpoint.VariantSingle:
		m["mark-1"] = append(m["mark-1"], "m")
	default:
		for i := 1; i <= k; i++ {
			m[fmt.Sprintf("recall-%d", i)] = append(m[fmt.Sprintf("recall-%d", i)], strconv.Itoa(k+i))
		}
	}
	return m
}

// BuildKeymap merges overrides into the variant defaults and resolves them into a Keymap.
// An override replaces every default token of its command. Slots beyond the variant's K
// and tokens bound to two commands are errors.
func BuildKeymap(variant checkpoint.Variant, overrides map[string][]string) (Keymap, error) {
	bindings := DefaultKeymap(variant)
	for name, tokens := range overrides {
		bindings[name] = tokens
	}

	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	km := make(Keymap)
	for _, name := range names {
		cmd, err := ports.ParseCommand(name)
		if err != nil {
			return nil, err
		}
		if cmd.Slot > variant.Slots() {
			return nil, fmt.Errorf("command %q: slot above %d for the %s variant", name, variant.Slots(), variant)
		}
		for _, tok := range bindings[name] {
			tok = normalize(tok)
			if prev, ok := km[tok]; ok && prev != cmd {
				return nil, fmt.Errorf("key %q bound to both %s and %s", tok, prev, cmd)
			}
			km[tok] = cmd
		}
	}
	return km, nil
}

// Lookup resolves one input line.
func (k Keymap) Lookup(line string) (ports.Command, bool) {
	cmd, ok := k[normalize(line)]
	return cmd, ok
}

// Describe lists the bindings as "command: tok, tok" lines in command order.
func (k Keymap) Describe() []string {
	byCmd := make(map[ports.Command][]string)
	for tok, cmd := range k {
		byCmd[cmd] = append(byCmd[cmd], display(tok))
	}
	cmds := make([]ports.Command, 0, len(byCmd))
	for cmd := range byCmd {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool {
		if cmds[i].Kind != cmds[j].Kind {
			return cmds[i].Kind < cmds[j].Kind
		}
		return cmds[i].Slot < cmds[j].Slot
	})

	lines := make([]string, 0, len(cmds))
	for _, cmd := range cmds {
		toks := byCmd[cmd]
		sort.Strings(toks)
		lines = append(lines, fmt.Sprintf("%s: %s", cmd, strings.Join(toks, ", ")))
	}
	return lines
}

func normalize(tok string) string {
	tok = strings.ToLower(strings.TrimSpace(tok))
	switch tok {
	case "space", "enter":
		return ""
	case "esc", "escape", "\x1b":
		return "esc"
	}
	return tok
}

func display(tok string) string {
	if tok == "" {
		return "<enter>"
	}
	return tok
}
