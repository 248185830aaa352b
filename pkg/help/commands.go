package help

import "strings"

// Category groups commands in help output.
type Category string

const (
	// CategoryEditing: /title, /owner, /section, /set, /amount, /bullet, /note, /show
	CategoryEditing Category = "editing"

	// CategoryFiles: /save, /load, /export, /verify
	CategoryFiles Category = "files"

	// CategoryGeneral: /help, /quit
	CategoryGeneral Category = "general"
)

// CategoryOrder defines the order in which categories appear in help output.
var CategoryOrder = []Category{
	CategoryEditing,
	CategoryFiles,
	CategoryGeneral,
}

var categoryNames = map[Category]string{
	CategoryEditing: "Building the Blueprint",
	CategoryFiles:   "Files & Export",
	CategoryGeneral: "General",
}

// DisplayName returns the human-readable name of the category.
func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

// Command describes one shell command.
type Command struct {
	// Name includes the leading slash, e.g. "/export".
	Name string

	// Shortcut is an optional alias such as "/q".
	Shortcut string

	Category    Category
	Description string

	// Usage shows the syntax, e.g. "/export <pdf|csv> [file]".
	Usage string

	Examples []Example
}

// Example is a sample invocation of a command.
type Example struct {
	Command     string
	Description string
}

// Commands is the registry of shell commands, in display order.
var Commands = []Command{
	{
		Name:        "/title",
		Category:    CategoryEditing,
		Description: "Set the report title",
		Usage:       "/title <text>",
		Examples: []Example{
			{Command: "/title Money Blueprint", Description: "Title the report"},
		},
	},
	{
		Name:        "/owner",
		Category:    CategoryEditing,
		Description: "Set who the report is for",
		Usage:       "/owner <name>",
	},
	{
		Name:        "/section",
		Category:    CategoryEditing,
		Description: "Select a section, adding it if new",
		Usage:       "/section <title>",
		Examples: []Example{
			{Command: "/section Income", Description: "Entries now go under Income"},
		},
	},
	{
		Name:        "/set",
		Category:    CategoryEditing,
		Description: "Add or replace an answer in the section",
		Usage:       "/set <label> = <value>",
		Examples: []Example{
			{Command: "/set Pay day = 25th", Description: "Record a free text answer"},
		},
	},
	{
		Name:        "/amount",
		Category:    CategoryEditing,
		Description: "Add a sterling amount to the section",
		Usage:       "/amount <label> = <number>",
		Examples: []Example{
			{Command: "/amount Net income = 2500.50", Description: "Shown as £2,500.50"},
		},
	},
	{
		Name:        "/bullet",
		Category:    CategoryEditing,
		Description: "Add a bullet point to the section",
		Usage:       "/bullet <text>",
	},
	{
		Name:        "/note",
		Category:    CategoryEditing,
		Description: "Append to the section notes",
		Usage:       "/note <text>",
	},
	{
		Name:        "/show",
		Category:    CategoryEditing,
		Description: "Print the report lines",
		Usage:       "/show",
	},
	{
		Name:        "/save",
		Category:    CategoryFiles,
		Description: "Save the blueprint as YAML or JSON",
		Usage:       "/save <file.yaml|file.json>",
	},
	{
		Name:        "/load",
		Category:    CategoryFiles,
		Description: "Load a saved blueprint",
		Usage:       "/load <file.yaml|file.json>",
	},
	{
		Name:        "/export",
		Category:    CategoryFiles,
		Description: "Render the report as PDF or CSV",
		Usage:       "/export <pdf|csv> [file]",
		Examples: []Example{
			{Command: "/export pdf", Description: "Write to the configured output directory"},
			{Command: "/export csv plan.csv", Description: "Write CSV to plan.csv"},
		},
	},
	{
		Name:        "/verify",
		Category:    CategoryFiles,
		Description: "Check a PDF with independent readers",
		Usage:       "/verify <file.pdf>",
	},
	{
		Name:        "/help",
		Shortcut:    "/h",
		Category:    CategoryGeneral,
		Description: "Show this help message",
		Usage:       "/help [command]",
		Examples: []Example{
			{Command: "/help export", Description: "Show detailed /export help"},
		},
	},
	{
		Name:        "/quit",
		Shortcut:    "/q",
		Category:    CategoryGeneral,
		Description: "Exit, asking first if there are unsaved changes",
		Usage:       "/quit",
	},
}

// GetCommandsByCategory returns all commands in a given category.
func GetCommandsByCategory(cat Category) []Command {
	var result []Command
	for _, cmd := range Commands {
		if cmd.Category == cat {
			result = append(result, cmd)
		}
	}
	return result
}

// GetCommand returns a command by name or shortcut, with or without the
// leading slash.
func GetCommand(name string) (Command, bool) {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	for _, cmd := range Commands {
		if cmd.Name == name || cmd.Shortcut == name {
			return cmd, true
		}
	}
	return Command{}, false
}

// Names returns the command names without the leading slash, in registry
// order.
func Names() []string {
	names := make([]string, len(Commands))
	for i, cmd := range Commands {
		names[i] = strings.TrimPrefix(cmd.Name, "/")
	}
	return names
}
