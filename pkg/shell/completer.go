package shell

import (
	"strings"

	"github.com/chzyer/readline"

	"github.com/r3d91ll/blueprint/pkg/export"
	"github.com/r3d91ll/blueprint/pkg/help"
)

// ShellCompleter provides tab completion for commands, section titles after
// /section and formats after /export.
type ShellCompleter struct {
	shell *Shell
}

// NewShellCompleter creates a completer that reads section titles from shell.
func NewShellCompleter(shell *Shell) *ShellCompleter {
	return &ShellCompleter{shell: shell}
}

var _ readline.AutoCompleter = (*ShellCompleter)(nil)

// Do implements readline.AutoCompleter. It returns the candidate suffixes
// and the length of the text they complete.
func (c *ShellCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	if len(line) == 0 || pos <= 0 {
		return nil, 0
	}
	if pos > len(line) {
		pos = len(line)
	}
	before := string(line[:pos])

	cmd, arg, hasArg := strings.Cut(before, " ")
	if !hasArg {
		if strings.HasPrefix(cmd, "/") {
			return completeCommand(cmd)
		}
		return nil, 0
	}

	switch cmd {
	case "/section":
		return c.completeSection(strings.TrimLeft(arg, " "))
	case "/export":
		// Only the first argument is a format.
		arg = strings.TrimLeft(arg, " ")
		if strings.ContainsAny(arg, " \t") {
			return nil, 0
		}
		return completeFormat(arg)
	}
	return nil, 0
}

// completeCommand returns completions for commands starting with the given prefix.
// The prefix includes the leading "/" character.
func completeCommand(prefix string) ([][]rune, int) {
	cmdPrefix := strings.TrimPrefix(prefix, "/")

	var matches [][]rune
	for _, cmd := range help.Names() {
		if strings.HasPrefix(cmd, cmdPrefix) {
			matches = append(matches, []rune(cmd[len(cmdPrefix):]+" "))
		}
	}
	return matches, len([]rune(prefix))
}

// completeSection matches existing section titles case-insensitively. Titles
// may contain spaces, so the whole argument is the prefix.
func (c *ShellCompleter) completeSection(prefix string) ([][]rune, int) {
	if c.shell == nil {
		return nil, 0
	}

	var matches [][]rune
	n := len([]rune(prefix))
	for _, sec := range c.shell.bp.Sections {
		title := []rune(sec.Title)
		if len(title) >= n && strings.EqualFold(string(title[:n]), prefix) {
			matches = append(matches, title[n:])
		}
	}
	return matches, n
}

func completeFormat(prefix string) ([][]rune, int) {
	var matches [][]rune
	for _, f := range export.Formats {
		if strings.HasPrefix(string(f), prefix) {
			matches = append(matches, []rune(string(f)[len(prefix):]+" "))
		}
	}
	return matches, len([]rune(prefix))
}
