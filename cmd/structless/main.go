// Command structless browses the syntax tree of a file as a foldable
// outline in the terminal.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/vanderheijden86/structless/pkg/config"
	"github.com/vanderheijden86/structless/pkg/debug"
	"github.com/vanderheijden86/structless/pkg/metrics"
	"github.com/vanderheijden86/structless/pkg/outline"
	"github.com/vanderheijden86/structless/pkg/syntax"
	"github.com/vanderheijden86/structless/pkg/ui"
	"github.com/vanderheijden86/structless/pkg/version"
	"github.com/vanderheijden86/structless/pkg/watcher"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// askGrammar is the --grammar value that opens the interactive picker.
const askGrammar = "ask"

// usageError marks errors caused by bad command-line input. run prints
// them followed by the flag usage.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{err: fmt.Errorf(format, args...)}
}

type options struct {
	input   string
	grammar string
	fold    string
	watch   bool
	dump    bool
	logFile string
	config  string
	version bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, fs, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err == nil {
		err = execute(opts, stdin, stdout)
	}
	if err == nil {
		return exitOK
	}

	var ue usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(stderr, "structless: %v\n", err)
		fs.Usage()
		return exitUsage
	}
	fmt.Fprintf(stderr, "structless: %v\n", err)
	return exitError
}

func parseFlags(args []string, stderr io.Writer) (options, *pflag.FlagSet, error) {
	var o options
	fs := pflag.NewFlagSet("structless", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&o.input, "input", "i", "", `file to browse ("-" for standard input)`)
	fs.StringVarP(&o.grammar, "grammar", "g", "", fmt.Sprintf("grammar: %s or %s (default: by extension)", joinNames(), askGrammar))
	fs.StringVar(&o.fold, "fold", "", "initial fold state: folded or unfolded (default from config)")
	fs.BoolVar(&o.watch, "watch", false, "re-parse the input when it changes on disk")
	fs.BoolVar(&o.dump, "dump", false, "print the outline and exit")
	fs.StringVar(&o.logFile, "log-file", "", "write debug log to this file")
	fs.StringVar(&o.config, "config", "", "config file (default: $XDG_CONFIG_HOME/structless/config.yaml)")
	fs.BoolVar(&o.version, "version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: structless -i PATH [options]")
		fmt.Fprintln(stderr, "\nBrowse the syntax tree of a file as a foldable outline.")
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, fs.FlagUsages())
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return o, fs, err
		}
		return o, fs, usageError{err: err}
	}
	if fs.NArg() > 0 {
		return o, fs, usagef("unexpected arguments: %v", fs.Args())
	}
	return o, fs, nil
}

func execute(o options, stdin io.Reader, stdout io.Writer) error {
	if o.version {
		fmt.Fprintf(stdout, "structless %s\n", version.String())
		return nil
	}
	if o.input == "" {
		return usagef("--input is required")
	}

	cfg, err := loadConfig(o.config)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(o.logFile)
	if err != nil {
		return err
	}
	defer closeLog()
	debug.Section("structless " + version.String())

	policy := cfg.FoldPolicy()
	if o.fold != "" {
		if policy, err = outline.ParseFoldPolicy(o.fold); err != nil {
			return usageError{err: fmt.Errorf("--fold: %w", err)}
		}
	}

	grammar, err := resolveGrammar(o.grammar, o.input, cfg)
	if err != nil {
		return err
	}

	src, err := readInput(o.input, stdin)
	if err != nil {
		return err
	}

	start := time.Now()
	tree, err := syntax.Parse(grammar, src, o.input)
	if err != nil {
		return err
	}
	debug.LogTiming("parse "+grammar.String(), time.Since(start))
	debug.Log("parsed %s as %s: %d nodes", o.input, grammar, tree.Len())

	if o.dump {
		return dump(stdout, tree, policy, cfg.UI.KindWidth)
	}
	return runTUI(o, cfg, tree, policy)
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(config.ExpandHome(path))
	}
	return config.Load()
}

// setupLogging routes debug output to path, or to the state directory when
// STRUCTLESS_DEBUG is set, since the viewer owns stderr while it runs.
func setupLogging(path string) (func(), error) {
	if path == "" && debug.Enabled() {
		if dir := config.StateDir(); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err == nil {
				path = filepath.Join(dir, "structless-debug.log")
			}
		}
	}
	if path == "" {
		return func() {}, nil
	}
	f, err := tea.LogToFile(config.ExpandHome(path), "structless")
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	debug.SetOutput(f)
	return func() {
		debug.SetOutput(nil)
		f.Close()
	}, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		src, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading standard input: %w", err)
		}
		return src, nil
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return src, nil
}

func resolveGrammar(name, path string, cfg config.Config) (syntax.Grammar, error) {
	fallback := syntax.GrammarForPath(path, cfg.Grammar.Extensions, cfg.DefaultGrammar())
	switch name {
	case "":
		return fallback, nil
	case askGrammar:
		return pickGrammar(fallback)
	}
	g, err := syntax.ParseGrammar(name)
	if err != nil {
		return g, usageError{err: fmt.Errorf("--grammar: %w", err)}
	}
	return g, nil
}

// dump prints every visible outline line under policy.
func dump(w io.Writer, tree *syntax.Tree, policy outline.FoldPolicy, kindWidth int) error {
	e := outline.New(tree, policy)
	for _, line := range e.Lines() {
		if _, err := fmt.Fprintln(w, ui.PlainLine(tree, line, kindWidth)); err != nil {
			return err
		}
	}
	return nil
}

// isRegularFile reports whether path names a regular file, the only kind
// of input whose folds are remembered or that can be watched.
func isRegularFile(path string) bool {
	if path == "-" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func runTUI(o options, cfg config.Config, tree *syntax.Tree, policy outline.FoldPolicy) error {
	if err := requireTerminal(o.input == "-"); err != nil {
		return err
	}

	regular := isRegularFile(o.input)
	uiOpts := ui.Options{
		Path:   o.input,
		Config: cfg,
		Policy: policy,
		Reload: func() (*syntax.Tree, error) {
			src, err := os.ReadFile(o.input)
			if err != nil {
				return nil, err
			}
			return syntax.Parse(tree.Grammar, src, o.input)
		},
	}
	if cfg.Fold.Persist && regular {
		uiOpts.Folds = ui.NewFoldStore(config.StateDir())
	}
	if o.watch {
		if !regular {
			return usagef("--watch needs a regular file input")
		}
		w, err := watcher.NewWatcher(o.input,
			watcher.WithOnChange(func() { debug.Log("%s changed on disk", o.input) }),
			watcher.WithOnError(func(err error) {
				debug.LogIf(errors.Is(err, watcher.ErrFileRemoved), "%s was removed", o.input)
			}),
		)
		if err != nil {
			return fmt.Errorf("watching input: %w", err)
		}
		if err := w.Start(); err != nil {
			return fmt.Errorf("watching input: %w", err)
		}
		defer w.Stop()
		uiOpts.Watcher = w
	}

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithoutSignalHandler()}
	if o.input == "-" {
		// Standard input held the document; keys come from the terminal.
		programOpts = append(programOpts, tea.WithInputTTY())
	}
	err := runTUIProgram(ui.NewModel(tree, uiOpts), programOpts...)
	if debug.Enabled() {
		debug.Log("timings:\n%s", metrics.Summary())
	}
	return err
}

func runTUIProgram(m ui.Model, opts ...tea.ProgramOption) error {
	p := tea.NewProgram(m, opts...)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated runs: set STRUCTLESS_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("STRUCTLESS_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}
				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
