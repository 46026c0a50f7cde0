package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/mcncl/jsonfmt/internal/config"
	"github.com/mcncl/jsonfmt/internal/detect"
	"github.com/mcncl/jsonfmt/internal/errors"
	"github.com/mcncl/jsonfmt/internal/fetch"
	"github.com/mcncl/jsonfmt/internal/formatter"
	"github.com/mcncl/jsonfmt/internal/logging"
	"github.com/mcncl/jsonfmt/internal/models"
	"github.com/mcncl/jsonfmt/internal/parser"
	"github.com/mcncl/jsonfmt/internal/tree"
	"github.com/mcncl/jsonfmt/internal/viewer"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path or http(s) URL of the JSON document. If not specified, reads from stdin." short:"i"`
	Output      string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Format      string `help:"Output format: tree, pretty or minify." short:"f" enum:"tree,pretty,minify" default:"tree"`
	Collapsed   bool   `help:"Start with every node collapsed." short:"C"`
	View        bool   `help:"Open the interactive tree viewer." short:"t"`
	Copy        bool   `help:"Copy the document to the clipboard." short:"y"`
	Indent      int    `help:"Indent width in spaces (default 2)."`
	NoColor     bool   `help:"Disable colored output." name:"no-color"`
	Config      string `help:"Path to config file. Defaults to the nearest .jsonfmt.yml." short:"c" type:"path"`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
	Interactive bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
	CopyFormat  string `help:"Clipboard format: pretty or minify. Overrides copy.format from the config file." name:"copy-format"`
}

// Context holds the runtime context
type Context struct {
	Debug     bool
	Config    *config.Config
	Logger    *log.Logger
	Stdout    io.Writer
	Clipboard viewer.Clipboard
}

// Version information
const (
	Version = "0.1.0"
)

// fetchRetryDelay is the first pause between URL fetch attempts.
const fetchRetryDelay = 250 * time.Millisecond

func main() {
	if err := parseArgs(newParser(), os.Args[1:]); err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("jsonfmt version %s\n", Version)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	err = run(&Context{Debug: cfg.Dev.Debug, Config: cfg, Logger: logger})
	_ = closeLog()
	if err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsonfmt --help\n")
		os.Exit(1)
	}
}

func newParser() *kong.Kong {
	return kong.Must(&CLI,
		kong.Name("jsonfmt"),
		kong.Description("Render JSON as a collapsible tree, pretty-print or minify it"),
		kong.UsageOnError(),
	)
}

// parseArgs fills CLI from args. With no arguments at all the tool starts
// in interactive mode; this has to happen after Parse, which resets every
// flag to its default.
func parseArgs(p *kong.Kong, args []string) error {
	if _, err := p.Parse(args); err != nil {
		return err
	}
	if len(args) == 0 {
		CLI.Interactive = true
	}
	return nil
}

// loadConfig finds and loads the config file, then applies CLI flags
func loadConfig() (*config.Config, error) {
	path := CLI.Config
	if path == "" {
		path = config.FindConfigFile("")
	}
	cfg, err := config.LoadConfigWithCLI(path, config.Overrides{
		Indent:         CLI.Indent,
		StartCollapsed: CLI.Collapsed,
		NoColor:        CLI.NoColor,
		Debug:          CLI.Debug,
		CopyFormat:     CLI.CopyFormat,
	})
	if err != nil {
		return nil, errors.NewConfigError(err.Error(), err)
	}
	return cfg, nil
}

// newLogger writes to the configured log file, or to stderr unless the
// viewer owns the terminal
func newLogger(cfg *config.Config) (*log.Logger, func() error, error) {
	level := logging.Level(cfg.Dev.Debug)
	if cfg.Dev.LogFile != "" {
		w, closeFn, err := logging.OpenFile(cfg.Dev.LogFile)
		if err != nil {
			return nil, closeFn, errors.NewConfigError(fmt.Sprintf("cannot open log file '%s'", cfg.Dev.LogFile), err)
		}
		return logging.New(w, level), closeFn, nil
	}
	if CLI.View {
		return logging.Discard(), func() error { return nil }, nil
	}
	return logging.New(os.Stderr, level), func() error { return nil }, nil
}

// run executes the main program logic
func run(ctx *Context) error {
	cfg := ctx.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	logger := ctx.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	stdout := ctx.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	clip := ctx.Clipboard
	if clip == nil {
		clip = viewer.SystemClipboard{}
	}
	base := logging.WithLogger(context.Background(), logger)

	// 1. Load and parse the document
	timer := logging.Start(logger)
	doc, err := loadDocument(base, cfg)
	if err != nil {
		return err
	}
	timer.Done("parsed input", "title", doc.Title, "kind", doc.Root.Kind)

	// 2. Render the collapsible tree
	root := tree.Render(doc.Root)
	if cfg.StartCollapsed {
		tree.CollapseAll(root)
	}
	stats := tree.Count(root)
	logger.Debug("rendered tree", "nodes", stats.Nodes, "collapsible", stats.Collapsible, "collapsed", stats.Collapsed, "depth", stats.MaxDepth)

	fmtr := formatter.NewFormatter(cfg.Indent)

	// 3. Copy to the clipboard if requested
	if CLI.Copy {
		text, err := fmtr.Format(doc.Root, cfg.CopyMode())
		if err != nil {
			return errors.NewOutputError("failed to serialize JSON", err)
		}
		if err := clip.WriteAll(text); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Copied!")
	}

	// 4. Interactive viewer takes over the terminal
	if CLI.View {
		styles := viewer.NewStyles(viewer.NewRenderer(stdout, cfg.NoColor), cfg.Theme)
		m := viewer.New(doc, root, viewer.Options{
			Indent:        cfg.Indent,
			CopyMode:      cfg.CopyMode(),
			StatusTimeout: cfg.Copy.StatusTimeout,
			Clipboard:     clip,
			Styles:        styles,
			Logger:        logger,
		})
		return viewer.Run(base, m)
	}

	// 5. Output the result
	var out string
	switch CLI.Format {
	case "pretty":
		out, err = fmtr.Pretty(doc.Root)
	case "minify":
		out, err = fmtr.Minify(doc.Root)
	default:
		// Files never get escape codes
		noColor := cfg.NoColor || CLI.Output != ""
		styles := viewer.NewStyles(viewer.NewRenderer(stdout, noColor), cfg.Theme)
		var b strings.Builder
		err = viewer.Print(&b, root, cfg.Indent, styles)
		out = b.String()
	}
	if err != nil {
		return errors.NewOutputError("failed to render output", err)
	}
	return writeOutput(stdout, out)
}

// loadDocument reads JSON from a URL, a file or stdin
func loadDocument(ctx context.Context, cfg *config.Config) (models.Document, error) {
	if fetch.IsURL(CLI.Input) {
		v, err := fetchJSON(ctx, cfg, CLI.Input)
		if err != nil {
			return models.Document{}, err
		}
		return models.Document{Title: detect.Title(CLI.Input), Root: v}, nil
	}

	v, err := parseInput()
	if err != nil {
		return models.Document{}, err
	}
	return models.Document{Title: detect.Title(CLI.Input), Root: v}, nil
}

// fetchJSON downloads url and parses it when the response looks like JSON
func fetchJSON(ctx context.Context, cfg *config.Config, url string) (models.Value, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Fetch.Timeout)
	defer cancel()

	client := &fetch.Client{
		UserAgent: cfg.Fetch.UserAgent,
		Attempts:  cfg.Fetch.Retries + 1,
		Delay:     fetchRetryDelay,
	}
	resp, err := client.Get(ctx, url)
	if err != nil {
		return models.Value{}, err
	}
	logging.FromContext(ctx).Debug("fetched document", "url", url, "content_type", resp.ContentType, "bytes", len(resp.Body))

	text, ok := detect.RawJSON(resp.ContentType, resp.Body)
	if !ok {
		return models.Value{}, errors.NewInputError(fmt.Sprintf("'%s' does not look like JSON", url), errors.ErrNotJSON)
	}
	return parser.ParseString(text)
}

// parseInput reads JSON from file or stdin
func parseInput() (models.Value, error) {
	if CLI.Input != "" {
		return parser.ParseFile(CLI.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return models.Value{}, errors.NewInputError("failed to access stdin", err)
	}

	// Interactive mode or piped input
	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		if CLI.Interactive {
			return readInteractiveInput()
		}
		// No data provided on stdin and not in interactive mode
		return models.Value{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	jsonData, err := io.ReadAll(os.Stdin)
	if err != nil {
		return models.Value{}, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return models.Value{}, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}

	return parser.ParseString(string(jsonData))
}

// writeOutput writes text to file or stdout
func writeOutput(stdout io.Writer, text string) error {
	text = strings.TrimRight(text, "\n")
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(text+"\n"), 0644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Output written to %s\n", CLI.Output)
		return nil
	}

	_, err := fmt.Fprintln(stdout, text)
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (models.Value, error) {
	fmt.Fprintln(os.Stderr, "jsonfmt Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.Value{}, errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if strings.TrimSpace(jsonData) == "" {
		return models.Value{}, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonData)
}
