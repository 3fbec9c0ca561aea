package repl

import (
	"sort"
	"strings"

	"github.com/yndnr/authfront/internal/route"
)

// Completer suggests shell commands and, after "open", route paths.
type Completer struct {
	commands []string
	paths    []string
}

// NewCompleter creates a completer for the shell's commands.
func NewCompleter() *Completer {
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.name)
	}
	names = append(names, "quit")
	sort.Strings(names)

	return &Completer{
		commands: names,
		paths: []string{
			route.PathRoot,
			route.PathDashboard,
			route.PathLogin,
			route.PathSignup,
			route.PathPasswordReset,
			route.PathPasswordUpdate,
		},
	}
}

// Complete returns the candidates completing line.
func (c *Completer) Complete(line string) []string {
	if rest, ok := strings.CutPrefix(line, "open "); ok {
		var out []string
		for _, p := range c.paths {
			if strings.HasPrefix(p, rest) {
				out = append(out, "open "+p)
			}
		}
		return out
	}

	var out []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, line) {
			out = append(out, cmd)
		}
	}
	return out
}

// Callback is a term.Terminal AutoCompleteCallback: on Tab it extends
// the line to the longest common prefix of the candidates.
func (c *Completer) Callback(line string, pos int, key rune) (string, int, bool) {
	if key != '\t' || pos != len(line) {
		return "", 0, false
	}
	cands := c.Complete(line)
	if len(cands) == 0 {
		return "", 0, false
	}

	prefix := cands[0]
	for _, s := range cands[1:] {
		for !strings.HasPrefix(s, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}
	if len(cands) == 1 {
		prefix += " "
	}
	if prefix == line {
		return "", 0, false
	}
	return prefix, len(prefix), true
}
