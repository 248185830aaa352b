// Package shell provides the interactive REPL for building a blueprint and
// exporting it.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/r3d91ll/blueprint/pkg/blueprint"
	"github.com/r3d91ll/blueprint/pkg/config"
	berrors "github.com/r3d91ll/blueprint/pkg/errors"
	"github.com/r3d91ll/blueprint/pkg/export"
	"github.com/r3d91ll/blueprint/pkg/help"
	"github.com/r3d91ll/blueprint/pkg/validate"
)

const prompt = "\033[32mblueprint>\033[0m "

// lineReader is the input side of the shell: a readline instance on a
// terminal, a line scanner otherwise.
type lineReader interface {
	Readline() (string, error)
	Close() error
}

// scanReader reads lines from a non-interactive input such as a pipe.
type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) Readline() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func (r *scanReader) Close() error { return nil }

// Shell is the interactive command-line interface.
type Shell struct {
	bp       *blueprint.Blueprint
	section  string // title of the section /set, /bullet and /note write to
	dirty    bool
	exporter *export.Exporter
	config   *config.Config
	in       lineReader
	out      io.Writer
	color    bool // terminal output: styled help
	prompter Prompter
}

// Options holds shell I/O settings.
type Options struct {
	// In defaults to os.Stdin. A terminal gets line editing and history.
	In io.Reader

	// Out defaults to os.Stdout.
	Out io.Writer

	// Blueprint is edited in place; nil starts an empty one.
	Blueprint *blueprint.Blueprint
}

// New creates a shell. When In is a terminal the shell uses readline with
// the configured history file and tab completion.
func New(cfg *config.Config, opts Options) (*Shell, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Blueprint == nil {
		opts.Blueprint = blueprint.New("", "")
	}

	s := &Shell{
		bp:       opts.Blueprint,
		exporter: export.NewExporter(cfg, nil),
		config:   cfg,
		out:      opts.Out,
	}

	if f, ok := opts.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          prompt,
			HistoryFile:     cfg.Shell.HistoryFile,
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
			AutoComplete:    NewShellCompleter(s),
			Stdin:           f,
			Stdout:          opts.Out,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to start line editor: %w", err)
		}
		s.in = rl
		s.color = true
	} else {
		s.in = &scanReader{scanner: bufio.NewScanner(opts.In)}
	}
	s.prompter = &linePrompter{in: s.in, out: s.out}
	return s, nil
}

// Blueprint returns the blueprint being edited.
func (s *Shell) Blueprint() *blueprint.Blueprint {
	return s.bp
}

// Run starts the interactive loop. It returns nil on /quit or end of input.
func (s *Shell) Run(ctx context.Context) error {
	defer s.in.Close()

	fmt.Fprintln(s.out, "Build your blueprint with /title, /section, /set and /bullet.")
	fmt.Fprintln(s.out, "Commands: /show, /save, /load, /export, /help, /quit")
	fmt.Fprintln(s.out)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := s.in.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				return nil
			}
			return err
		}

		if err := s.Execute(line); err != nil {
			if err == errQuit {
				return nil
			}
			fmt.Fprintln(s.out, berrors.Format(err))
		}
	}
}

var errQuit = fmt.Errorf("quit")

// Execute runs one input line. Blank lines and lines starting with # are
// ignored.
func (s *Shell) Execute(line string) error {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}
	if !strings.HasPrefix(line, "/") {
		return berrors.Command(berrors.ErrCommandUnknown, "commands start with /").
			WithContext("input", line)
	}

	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch cmd {
	case "/quit", "/exit", "/q":
		return s.handleQuit()
	case "/help", "/h":
		return s.printHelp(rest)
	case "/title":
		return s.setField("title", rest, &s.bp.Title)
	case "/owner":
		return s.setField("owner", rest, &s.bp.Owner)
	case "/section":
		return s.handleSection(rest)
	case "/set":
		return s.handleSet(rest, false)
	case "/amount":
		return s.handleSet(rest, true)
	case "/bullet":
		return s.handleText("/bullet <text>", rest, (*blueprint.Section).Bullet)
	case "/note":
		return s.handleText("/note <text>", rest, (*blueprint.Section).Note)
	case "/show":
		s.printBlueprint()
	case "/save":
		return s.handleSave(rest)
	case "/load":
		return s.handleLoad(rest)
	case "/export":
		return s.handleExport(rest)
	case "/verify":
		return s.handleVerify(rest)
	default:
		return berrors.Command(berrors.ErrCommandUnknown, "unknown command").
			WithContext("command", cmd)
	}
	return nil
}

func usage(syntax string) *berrors.BlueprintError {
	return berrors.Command(berrors.ErrCommandUsage, "usage: "+syntax)
}

func (s *Shell) setField(name, value string, field *string) error {
	if value == "" {
		return usage("/" + name + " <text>")
	}
	*field = value
	s.dirty = true
	fmt.Fprintf(s.out, "%s set.\n", strings.ToUpper(name[:1])+name[1:])
	return nil
}

// handleSection selects the named section, creating it when missing.
func (s *Shell) handleSection(title string) error {
	if title == "" {
		return usage("/section <title>")
	}
	if sec := s.bp.Section(title); sec != nil {
		s.section = sec.Title
		fmt.Fprintf(s.out, "Section %q selected.\n", sec.Title)
		return nil
	}
	s.bp.AddSection(title)
	s.section = title
	s.dirty = true
	fmt.Fprintf(s.out, "Section %q added.\n", title)
	return nil
}

// currentSection returns the selected section or a usage error.
func (s *Shell) currentSection() (*blueprint.Section, error) {
	if s.section != "" {
		if sec := s.bp.Section(s.section); sec != nil {
			return sec, nil
		}
	}
	return nil, berrors.Command(berrors.ErrCommandUsage, "no section selected").
		WithSuggestion("Start one with /section <title>")
}

// handleSet parses "<label> = <value>". With amount set the value must be a
// sterling amount and is stored formatted.
func (s *Shell) handleSet(args string, amount bool) error {
	syntax := "/set <label> = <value>"
	if amount {
		syntax = "/amount <label> = <number>"
	}
	label, value, ok := strings.Cut(args, "=")
	label, value = strings.TrimSpace(label), strings.TrimSpace(value)
	if !ok || label == "" {
		return usage(syntax)
	}

	sec, err := s.currentSection()
	if err != nil {
		return err
	}

	if amount {
		n, err := ParseAmount(value)
		if err != nil {
			return usage(syntax).WithCause(err).WithContext("value", value)
		}
		value = blueprint.FormatGBP(n)
	}
	sec.Add(label, value)
	s.dirty = true
	fmt.Fprintf(s.out, "%s: %s\n", label, value)
	return nil
}

// ParseAmount reads a sterling amount such as "2500.5", "£2,500.50" or
// "-£10".
func ParseAmount(s string) (float64, error) {
	clean := strings.NewReplacer("£", "", "GBP", "", ",", "", " ", "").Replace(s)
	n, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("amount %q is not a finite number", s)
	}
	return n, nil
}

func (s *Shell) handleText(syntax, text string, add func(*blueprint.Section, string) *blueprint.Section) error {
	if text == "" {
		return usage(syntax)
	}
	sec, err := s.currentSection()
	if err != nil {
		return err
	}
	add(sec, text)
	s.dirty = true
	return nil
}

func (s *Shell) printBlueprint() {
	for _, line := range blueprint.Lines(s.bp) {
		fmt.Fprintln(s.out, line)
	}
}

func (s *Shell) handleSave(path string) error {
	if path == "" {
		return usage("/save <file.yaml|file.json>")
	}
	if err := blueprint.SaveFile(path, s.bp); err != nil {
		return err
	}
	s.dirty = false
	fmt.Fprintf(s.out, "Saved %s\n", path)
	return nil
}

func (s *Shell) handleLoad(path string) error {
	if path == "" {
		return usage("/load <file.yaml|file.json>")
	}
	if s.dirty {
		ok, err := s.prompter.Confirm("Discard unsaved changes?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(s.out, "Load cancelled.")
			return nil
		}
	}

	b, err := blueprint.LoadFile(path)
	if err != nil {
		return err
	}
	s.bp = b
	s.section = ""
	if n := len(b.Sections); n > 0 {
		s.section = b.Sections[n-1].Title
	}
	s.dirty = false
	fmt.Fprintf(s.out, "Loaded %q (%d sections)\n", b.Title, len(b.Sections))
	return nil
}

// handleExport renders the blueprint. Without a file argument it writes to
// the configured output directory under the default filename.
func (s *Shell) handleExport(args string) error {
	fields := strings.Fields(args)
	if len(fields) == 0 || len(fields) > 2 {
		return usage("/export <pdf|csv> [file]")
	}
	format, err := export.ParseFormat(fields[0])
	if err != nil {
		return err
	}

	res, err := s.exporter.Export(s.bp, format)
	if err != nil {
		return err
	}

	path := filepath.Join(s.config.Export.OutputDir, res.Filename)
	if len(fields) == 2 {
		path = fields[1]
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return berrors.IOWrap(err, berrors.ErrIOWriteFailed, "failed to create export directory").
			WithContext("path", filepath.Dir(path))
	}
	if err := os.WriteFile(path, res.Data, 0644); err != nil {
		return berrors.IOWrap(err, berrors.ErrIOWriteFailed, "failed to write export").
			WithContext("path", path)
	}

	if format == export.FormatPDF {
		fmt.Fprintf(s.out, "Wrote %s (%d bytes, %d pages)\n", path, len(res.Data), res.Pages)
	} else {
		fmt.Fprintf(s.out, "Wrote %s (%d bytes)\n", path, len(res.Data))
	}
	return nil
}

func (s *Shell) handleVerify(path string) error {
	if path == "" {
		return usage("/verify <file.pdf>")
	}
	report, err := validate.CheckFile(path)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s: valid PDF, %d pages\n", path, report.Pages)
	return nil
}

func (s *Shell) handleQuit() error {
	if !s.dirty {
		return errQuit
	}
	ok, err := s.prompter.Confirm("Quit without saving?")
	if err != nil {
		return err
	}
	if ok {
		return errQuit
	}
	return nil
}

// printHelp renders the command reference, or one command's details when
// topic is set.
func (s *Shell) printHelp(topic string) error {
	r := help.NewRenderer(s.out, s.color)
	if topic == "" {
		r.RenderFull()
		return nil
	}
	if !r.RenderCommand(topic) {
		return berrors.Command(berrors.ErrCommandUnknown, "no help for unknown command").
			WithContext("command", topic)
	}
	return nil
}
