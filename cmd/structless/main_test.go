package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/term"

	"github.com/vanderheijden86/structless/pkg/config"
	"github.com/vanderheijden86/structless/pkg/debug"
	"github.com/vanderheijden86/structless/pkg/syntax"
)

// runCmd runs the command with an isolated config and state directory.
func runCmd(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	var out, errOut bytes.Buffer
	code = run(args, strings.NewReader(stdin), &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestVersion(t *testing.T) {
	code, out, _ := runCmd(t, "", "--version")
	if code != exitOK || !strings.HasPrefix(out, "structless ") {
		t.Errorf("--version = %d %q", code, out)
	}
}

func TestHelp(t *testing.T) {
	code, _, errOut := runCmd(t, "", "--help")
	if code != exitOK || !strings.Contains(errOut, "--input") {
		t.Errorf("--help = %d %q", code, errOut)
	}
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing input", nil, "--input is required"},
		{"unknown flag", []string{"--bogus"}, "structless: unknown flag: --bogus"},
		{"unknown flag usage", []string{"--bogus"}, "Usage: structless"},
		{"bad grammar", []string{"-i", "-", "-g", "cobol"}, "--grammar"},
		{"bad fold", []string{"-i", "-", "--fold", "sideways"}, "--fold"},
		{"extra args", []string{"-i", "-", "x"}, "unexpected arguments"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCmd(t, "", tt.args...)
			if code != exitUsage {
				t.Errorf("exit = %d, want %d", code, exitUsage)
			}
			if !strings.Contains(errOut, tt.want) {
				t.Errorf("stderr %q should mention %q", errOut, tt.want)
			}
		})
	}
}

func TestDumpStdinFolded(t *testing.T) {
	code, out, errOut := runCmd(t, "a(b)", "-i", "-", "--dump")
	if code != exitOK {
		t.Fatalf("exit = %d: %s", code, errOut)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 1 || !strings.Contains(lines[0], "source_file") || !strings.HasSuffix(lines[0], "a(b)") {
		t.Errorf("folded dump = %q", out)
	}
}

func TestDumpStdinUnfolded(t *testing.T) {
	code, out, errOut := runCmd(t, "a(b)", "-i", "-", "--dump", "--fold", "unfolded")
	if code != exitOK {
		t.Fatalf("exit = %d: %s", code, errOut)
	}
	for _, want := range []string{"just_text   a", "delimited   (b)", "// end delimited", "// end source_file"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}

func TestDumpDetectsGrammarFromExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(`{"a": [1]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	code, out, errOut := runCmd(t, "", "-i", path, "--dump", "--fold", "unfolded")
	if code != exitOK {
		t.Fatalf("exit = %d: %s", code, errOut)
	}
	for _, want := range []string{"document", "pair", "array", "number"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}

func TestDumpUsesConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("fold:\n  initial: unfolded\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	code, out, errOut := runCmd(t, "x(y)", "-i", "-", "--dump", "--config", cfgPath)
	if code != exitOK {
		t.Fatalf("exit = %d: %s", code, errOut)
	}
	if !strings.Contains(out, "// end source_file") {
		t.Errorf("config fold policy ignored:\n%s", out)
	}
}

func TestSetupFailures(t *testing.T) {
	badCfg := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(badCfg, []byte("fold: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{"missing file", "", []string{"-i", "/nonexistent/input.txt", "--dump"}, "reading input"},
		{"invalid json", "{", []string{"-i", "-", "-g", "json", "--dump"}, "json"},
		{"broken config", "", []string{"-i", "-", "--dump", "--config", badCfg}, "parsing config"},
		{"no terminal", "a", []string{"-i", "-"}, "--dump"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.name == "no terminal" && term.IsTerminal(int(os.Stdout.Fd())) {
				t.Skip("stdout is a terminal")
			}
			code, _, errOut := runCmd(t, tt.stdin, tt.args...)
			if code != exitError {
				t.Errorf("exit = %d, want %d (%s)", code, exitError, errOut)
			}
			if !strings.Contains(errOut, tt.want) {
				t.Errorf("stderr %q should mention %q", errOut, tt.want)
			}
		})
	}
}

func TestResolveGrammar(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Grammar.Extensions[".conf"] = "json"

	tests := []struct {
		flag, path string
		want       syntax.Grammar
	}{
		{"", "a.json", syntax.GrammarJSON},
		{"", "a.conf", syntax.GrammarJSON},
		{"", "-", syntax.GrammarStructless},
		{"go", "a.json", syntax.GrammarGo},
		{"MARKDOWN", "-", syntax.GrammarMarkdown},
	}
	for _, tt := range tests {
		got, err := resolveGrammar(tt.flag, tt.path, cfg)
		if err != nil || got != tt.want {
			t.Errorf("resolveGrammar(%q, %q) = %s, %v; want %s", tt.flag, tt.path, got, err, tt.want)
		}
	}
}

func TestIsRegularFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if !isRegularFile(file) {
		t.Error("file should be regular")
	}
	for _, p := range []string{"-", dir, filepath.Join(dir, "missing")} {
		if isRegularFile(p) {
			t.Errorf("isRegularFile(%q) = true", p)
		}
	}
}

func TestSetupLoggingToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	closeLog, err := setupLogging(path)
	if err != nil {
		t.Fatal(err)
	}
	debug.Log("hello %d", 42)
	closeLog()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello 42") {
		t.Errorf("log = %q", data)
	}
	if debug.Enabled() {
		t.Error("closing the log should disable debug output")
	}
}

func TestGrammarOptions(t *testing.T) {
	opts := grammarOptions()
	if len(opts) != len(syntax.Grammars()) {
		t.Fatalf("got %d options", len(opts))
	}
	if opts[0].Value != syntax.Grammars()[0] || !strings.HasPrefix(opts[0].Key, syntax.Grammars()[0].String()) {
		t.Errorf("first option = %+v", opts[0])
	}
}
