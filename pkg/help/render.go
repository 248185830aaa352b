package help

import "strings"

const (
	// commandColumnWidth fits the longest name with shortcut, "/help (or /h)",
	// plus a gap.
	commandColumnWidth = 16

	indentCategory = "  "
	indentCommand  = "    "
	indentExample  = "      "

	// maxInlineExamples limits examples shown in the full listing.
	maxInlineExamples = 1
)

// RenderFull renders every category with its commands.
func (r *Renderer) RenderFull() {
	r.writeln("")
	r.writeln(Header(indentCategory + "Blueprint Commands"))
	r.writeln("")

	for _, cat := range CategoryOrder {
		r.renderCategory(cat)
	}
	r.RenderShortcuts()
}

// RenderCommand renders the usage and all examples of one command. It
// writes nothing and returns false if name is not a command.
func (r *Renderer) RenderCommand(name string) bool {
	cmd, found := GetCommand(name)
	if !found {
		return false
	}

	r.writeln("")
	r.writeln(indentCategory + CommandWithShortcut(cmd.Name, cmd.Shortcut))
	r.writeln(indentCategory + Dim(cmd.Description))
	r.writeln("")
	r.writeln(indentCategory + Bold("Usage:") + " " + Argument(cmd.Usage))
	r.writeln("")

	if len(cmd.Examples) > 0 {
		r.writeln(indentCategory + Bold("Examples:"))
		for _, ex := range cmd.Examples {
			r.writeln(indentCommand + ExampleLine(ex.Command, ex.Description))
		}
		r.writeln("")
	}
	return true
}

// RenderShortcuts renders the aliases and key bindings.
func (r *Renderer) RenderShortcuts() {
	r.writeln(indentCategory + StyleCategory("Shortcuts & Tips"))
	r.writeln(indentCategory + Dim(BoxTeeLeft+strings.Repeat(BoxHorizontal, commandColumnWidth+20)))
	r.writeln(indentCommand + Dim(BoxVertical+" ") + Dim("Aliases: ") +
		Shortcut("/h") + Dim("=help  ") +
		Shortcut("/q") + Dim("=quit  ") +
		Shortcut("/exit") + Dim("=quit"))
	r.writeln(indentCommand + Dim(BoxVertical+" ") + Dim("Keys:    ") +
		Shortcut("Tab") + Dim(" complete commands, sections and formats  ") +
		Shortcut("Ctrl+D") + Dim(" exit"))
	r.writeln("")
}

func (r *Renderer) renderCategory(cat Category) {
	commands := GetCommandsByCategory(cat)
	if len(commands) == 0 {
		return
	}

	r.writeln(indentCategory + StyleCategory(cat.DisplayName()))
	r.writeln(indentCategory + Dim(BoxTeeLeft+strings.Repeat(BoxHorizontal, commandColumnWidth+20)))
	for _, cmd := range commands {
		r.renderCommandLine(cmd)
	}
	r.writeln("")
}

// renderCommandLine renders "│ /name (or /x)   description" with the
// description column aligned, followed by inline examples.
func (r *Renderer) renderCommandLine(cmd Command) {
	name := PadRight(CommandWithShortcut(cmd.Name, cmd.Shortcut), commandColumnWidth)
	r.writeln(indentCommand + Dim(BoxVertical+" ") + name + Dim(cmd.Description))

	for i, ex := range cmd.Examples {
		if i == maxInlineExamples {
			break
		}
		r.writeln(indentExample + Dim(BoxVertical+"   e.g. ") + HighlightExampleCommand(ex.Command))
	}
}
