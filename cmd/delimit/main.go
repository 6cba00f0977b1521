// Command delimit reindents text by bracket depth: every start delimiter
// opens a deeper line and every end delimiter closes it.
//
//	echo 'f(a, g(b))' | delimit -d '(<=>)'
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/vanderheijden86/structless/pkg/config"
	"github.com/vanderheijden86/structless/pkg/delimit"
	"github.com/vanderheijden86/structless/pkg/version"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		input       string
		pairs       []string
		configPath  string
		showVersion bool
	)
	fs := pflag.NewFlagSet("delimit", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&input, "input", "i", "-", `file to reindent ("-" for standard input)`)
	fs.StringArrayVarP(&pairs, "delimiter", "d", nil, `delimiter pair "S<=>E", repeatable (default from config, else "(<=>)")`)
	fs.StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/structless/config.yaml)")
	fs.BoolVar(&showVersion, "version", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: delimit [-i PATH] [-d PAIR]...")
		fmt.Fprintln(stderr)
		fmt.Fprint(stderr, fs.FlagUsages())
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "delimit: %v\n", err)
		fs.Usage()
		return exitUsage
	}
	if showVersion {
		fmt.Fprintf(stdout, "delimit %s\n", version.String())
		return exitOK
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "delimit: unexpected arguments: %v\n", fs.Args())
		return exitUsage
	}

	delims, err := delimiters(pairs, configPath)
	if err != nil {
		fmt.Fprintf(stderr, "delimit: %v\n", err)
		var pe *delimit.PairError
		if errors.As(err, &pe) {
			return exitUsage
		}
		return exitError
	}

	r := stdin
	if input != "-" {
		f, err := os.Open(input)
		if err != nil {
			fmt.Fprintf(stderr, "delimit: %v\n", err)
			return exitError
		}
		defer f.Close()
		r = f
	}

	if err := delimit.Reindent(stdout, r, delims); err != nil {
		fmt.Fprintf(stderr, "delimit: %v\n", err)
		return exitError
	}
	return exitOK
}

// delimiters returns the pairs given on the command line, or the configured
// ones when there are none.
func delimiters(pairs []string, configPath string) ([]delimit.Delimiter, error) {
	if len(pairs) > 0 {
		return delimit.ParseDelimiters(pairs)
	}
	var (
		cfg config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFrom(config.ExpandHome(configPath))
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	return cfg.Delimiters(), nil
}
