package shell

import (
	"fmt"
	"io"
	"strings"
)

// Prompter asks the user to confirm an action that would lose work.
type Prompter interface {
	// Confirm displays message and reports whether the user answered
	// "yes" or "y".
	Confirm(message string) (bool, error)
}

// linePrompter reads the answer from the shell's own input so piped
// scripts and the line editor see one stream.
type linePrompter struct {
	in  lineReader
	out io.Writer
}

var _ Prompter = (*linePrompter)(nil)

// promptSetter is implemented by *readline.Instance.
type promptSetter interface {
	SetPrompt(string)
}

// Confirm implements Prompter. End of input and any answer other than
// yes or y count as no.
func (p *linePrompter) Confirm(message string) (bool, error) {
	question := message + " [y/N]: "
	if ps, ok := p.in.(promptSetter); ok {
		ps.SetPrompt(question)
		defer ps.SetPrompt(prompt)
	} else {
		fmt.Fprint(p.out, question)
	}

	answer, err := p.in.Readline()
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	response := strings.TrimSpace(strings.ToLower(answer))
	return response == "yes" || response == "y", nil
}
