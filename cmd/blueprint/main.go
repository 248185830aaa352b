// Blueprint - money blueprint report exporter
//
// Blueprint turns the answers from the money blueprint calculator into
// downloadable reports.
//
// Commands:
//   - render: plain text or a blueprint file to PDF or CSV
//   - serve:  HTTP API with websocket export events
//   - shell:  interactive blueprint editor
//   - verify: check a PDF with independent readers
//   - init:   write a default config file
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/r3d91ll/blueprint/pkg/api"
	"github.com/r3d91ll/blueprint/pkg/blueprint"
	"github.com/r3d91ll/blueprint/pkg/config"
	berrors "github.com/r3d91ll/blueprint/pkg/errors"
	"github.com/r3d91ll/blueprint/pkg/export"
	"github.com/r3d91ll/blueprint/pkg/pdf"
	"github.com/r3d91ll/blueprint/pkg/shell"
	"github.com/r3d91ll/blueprint/pkg/validate"
)

const version = "1.0.0"

const shutdownTimeout = 10 * time.Second

func main() {
	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nShutting down...")
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if err != flag.ErrHelp {
			fmt.Fprintln(os.Stderr, berrors.Format(err))
		}
		os.Exit(1)
	}
}

// run dispatches a sub-command. It is main without the process globals.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) == 0 {
		printUsage(stdout)
		return flag.ErrHelp
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "render":
		return runRender(rest, stdin, stdout)
	case "serve":
		return runServe(ctx, rest, stdout)
	case "shell":
		return runShell(ctx, rest, stdin, stdout)
	case "verify":
		return runVerify(rest, stdout)
	case "init":
		return runInit(rest, stdout)
	case "version", "-version", "--version":
		fmt.Fprintf(stdout, "Blueprint %s\n", version)
		return nil
	case "help", "-h", "-help", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stdout)
		return berrors.Command(berrors.ErrCommandUnknown, fmt.Sprintf("unknown command: %s", cmd)).
			WithSuggestion("Run 'blueprint help' to list commands")
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: blueprint <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  render  Render a text or blueprint file to PDF or CSV")
	fmt.Fprintln(w, "  serve   Start the HTTP API")
	fmt.Fprintln(w, "  shell   Edit a blueprint interactively")
	fmt.Fprintln(w, "  verify  Check that a PDF file is readable")
	fmt.Fprintln(w, "  init    Write a default config file")
	fmt.Fprintln(w, "  version Show version")
}

// newFlagSet creates a flag set with the shared -config flag.
func newFlagSet(name string, out io.Writer) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	configPath := fs.String("config", "", "Config file path (default: ./blueprint.yaml)")
	return fs, configPath
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = config.DefaultConfigPath()
	}
	return config.LoadOrDefault(path)
}

// -----------------------------------------------------------------------------
// render
// -----------------------------------------------------------------------------

func runRender(args []string, stdin io.Reader, stdout io.Writer) error {
	fs, configPath := newFlagSet("render", stdout)
	formatName := fs.String("format", "pdf", "Output format: pdf or csv")
	output := fs.String("o", "", "Output file (default: derived from the input, - for stdout)")
	title := fs.String("title", "", "Document title for plain text input")
	fs.Usage = func() {
		fmt.Fprintln(stdout, "Usage: blueprint render [flags] <file.txt|file.yaml|file.json|->")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return berrors.Command(berrors.ErrCommandUsage, "render takes exactly one input file")
	}
	input := fs.Arg(0)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(*formatName)
	if err != nil {
		return err
	}

	var data []byte
	var filename string
	var pages int

	if _, ferr := blueprint.FileFormatFromPath(input); ferr == nil {
		b, err := blueprint.LoadFile(input)
		if err != nil {
			return err
		}
		res, err := export.NewExporter(cfg, nil).Export(b, format)
		if err != nil {
			return err
		}
		data, filename, pages = res.Data, res.Filename, res.Pages
	} else {
		if format != export.FormatPDF {
			return berrors.Command(berrors.ErrCommandUsage, "plain text input can only be rendered to pdf").
				WithContext("format", string(format))
		}
		lines, err := readLines(input, stdin)
		if err != nil {
			return err
		}
		doc, err := renderLines(lines, *title, cfg)
		if err != nil {
			return err
		}
		data, pages = doc.Data, doc.PageCount
		filename = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".pdf"
		if input == "-" {
			filename = "output.pdf"
		}
	}

	if *output == "-" {
		_, err := stdout.Write(data)
		return err
	}
	path := *output
	if path == "" {
		path = filepath.Join(cfg.Export.OutputDir, filename)
	}
	if err := writeFile(path, data); err != nil {
		return err
	}

	if format == export.FormatPDF {
		fmt.Fprintf(stdout, "Wrote %s (%d bytes, %d pages)\n", path, len(data), pages)
	} else {
		fmt.Fprintf(stdout, "Wrote %s (%d bytes)\n", path, len(data))
	}
	return nil
}

// readLines reads input line by line; "-" reads stdin.
func readLines(path string, stdin io.Reader) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, berrors.IOWrap(err, berrors.ErrIOReadFailed, "failed to open input").
				WithContext("path", path)
		}
		defer f.Close()
		r = f
	}

	var lines []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, berrors.IOWrap(err, berrors.ErrIOReadFailed, "failed to read input").
			WithContext("path", path)
	}
	return lines, nil
}

func renderLines(lines []string, title string, cfg *config.Config) (*pdf.Document, error) {
	g := pdf.NewGenerator(cfg.Layout)
	g.Encoder = cfg.Encoder()
	g.Info = pdf.Info{
		Title:   title,
		Subject: cfg.Document.Subject,
		Creator: cfg.Document.Creator,
	}
	return g.Generate(lines)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return berrors.IOWrap(err, berrors.ErrIOWriteFailed, "failed to create output directory").
				WithContext("path", dir)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return berrors.IOWrap(err, berrors.ErrIOWriteFailed, "failed to write output").
			WithContext("path", path)
	}
	return nil
}

// -----------------------------------------------------------------------------
// serve
// -----------------------------------------------------------------------------

func runServe(ctx context.Context, args []string, stdout io.Writer) error {
	fs, configPath := newFlagSet("serve", stdout)
	addr := fs.String("addr", "", "Listen address (overrides server.addr)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	srv := api.NewServer(cfg, store, version)
	if err := srv.Start(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Blueprint API listening on %s (store: %s)\n", srv.Address(), cfg.Store.Backend)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(cfg *config.Config) (blueprint.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreFile:
		return blueprint.NewFileStore(cfg.Store.Dir)
	default:
		return blueprint.NewMemoryStore(), nil
	}
}

// -----------------------------------------------------------------------------
// shell
// -----------------------------------------------------------------------------

func runShell(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs, configPath := newFlagSet("shell", stdout)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	opts := shell.Options{In: stdin, Out: stdout}
	if fs.NArg() > 0 {
		b, err := blueprint.LoadFile(fs.Arg(0))
		if err != nil {
			return err
		}
		opts.Blueprint = b
	}

	sh, err := shell.New(cfg, opts)
	if err != nil {
		return err
	}
	if err := sh.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	fmt.Fprintln(stdout, "Goodbye!")
	return nil
}

// -----------------------------------------------------------------------------
// verify / init
// -----------------------------------------------------------------------------

func runVerify(args []string, stdout io.Writer) error {
	fs, _ := newFlagSet("verify", stdout)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return berrors.Command(berrors.ErrCommandUsage, "verify takes one or more PDF files")
	}

	failed := 0
	for _, path := range fs.Args() {
		report, err := validate.CheckFile(path)
		if err != nil {
			fmt.Fprintf(stdout, "✗ %s\n", path)
			fmt.Fprintln(stdout, berrors.Format(err))
			failed++
			continue
		}
		fmt.Fprintf(stdout, "✓ %s: %d pages\n", path, report.Pages)
	}
	if failed > 0 {
		return berrors.PDFf(berrors.ErrPDFInvalid, "%d of %d files failed verification", failed, fs.NArg())
	}
	return nil
}

func runInit(args []string, stdout io.Writer) error {
	fs, configPath := newFlagSet("init", stdout)
	if err := fs.Parse(args); err != nil {
		return err
	}

	path := *configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if err := config.InitConfig(path); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Config initialized at: %s\n", path)
	return nil
}
