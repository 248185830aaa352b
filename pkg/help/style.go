package help

import "strings"

// Header styles a section title (bold cyan).
func Header(text string) string {
	return ColorBold + ColorCyan + text + ColorReset
}

// StyleCategory styles a category label (bold green).
func StyleCategory(text string) string {
	return ColorBold + ColorGreen + text + ColorReset
}

// StyleCommand styles a command name (cyan).
func StyleCommand(text string) string {
	return ColorCyan + text + ColorReset
}

// Argument styles command arguments and usage lines (yellow).
func Argument(text string) string {
	return ColorYellow + text + ColorReset
}

// Shortcut styles an alias or key name (bold yellow).
func Shortcut(text string) string {
	return ColorBold + ColorYellow + text + ColorReset
}

// Dim styles secondary text (gray).
func Dim(text string) string {
	return ColorGray + text + ColorReset
}

// Bold returns text in bold style.
func Bold(text string) string {
	return ColorBold + text + ColorReset
}

// CommandWithShortcut formats a command with its alias: "/help (or /h)".
func CommandWithShortcut(cmd, shortcut string) string {
	if shortcut == "" {
		return StyleCommand(cmd)
	}
	return StyleCommand(cmd) + Dim(" (or ") + Shortcut(shortcut) + Dim(")")
}

// HighlightExampleCommand shows the command word in cyan and its arguments
// in yellow.
func HighlightExampleCommand(line string) string {
	cmd, args, _ := strings.Cut(line, " ")
	if cmd == "" {
		return ""
	}
	result := StyleCommand(cmd)
	if args = strings.TrimLeft(args, " "); args != "" {
		result += Argument(" " + args)
	}
	return result
}

// ExampleLine formats an example with its description:
// "/export pdf -> Write to the configured output directory".
func ExampleLine(cmd, desc string) string {
	return HighlightExampleCommand(cmd) + Dim(" -> ") + Dim(desc)
}

// visibleLength returns the length of s in runes, excluding ANSI escapes.
func visibleLength(s string) int {
	return len([]rune(StripANSI(s)))
}

// StripANSI removes ANSI color sequences from s.
func StripANSI(s string) string {
	if !strings.ContainsRune(s, '\033') {
		return s
	}
	var sb strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// PadRight pads s with spaces to the given visible width.
func PadRight(s string, width int) string {
	if n := visibleLength(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
