// Package config handles loading and saving structless configuration.
//
// Configuration follows the XDG Base Directory specification:
//   - Config:  ~/.config/structless/config.yaml
//   - State:   ~/.local/state/structless/ (remembered folds, debug log)
//
// Command-line flags override every value read here.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2/styles"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/structless/pkg/delimit"
	"github.com/vanderheijden86/structless/pkg/outline"
	"github.com/vanderheijden86/structless/pkg/syntax"
)

const appName = "structless"

// FoldConfig controls the initial fold state and its persistence.
type FoldConfig struct {
	Initial string `yaml:"initial,omitempty"` // folded | unfolded
	Persist bool   `yaml:"persist"`           // remember folds per input file
}

// GrammarConfig controls grammar selection.
type GrammarConfig struct {
	Default    string            `yaml:"default,omitempty"`    // used when detection fails
	Extensions map[string]string `yaml:"extensions,omitempty"` // ".ext" -> grammar name
}

// UIConfig holds display preferences.
type UIConfig struct {
	KindWidth      int    `yaml:"kind_width,omitempty"`      // width of the kind column
	HighlightStyle string `yaml:"highlight_style,omitempty"` // chroma style for the source view
	ShowRanges     bool   `yaml:"show_ranges,omitempty"`     // show byte ranges in the outline
}

// DelimitConfig holds defaults for the delimit tool.
type DelimitConfig struct {
	Pairs []string `yaml:"pairs,omitempty"` // "S<=>E"
}

// Config is the top-level configuration.
type Config struct {
	Fold    FoldConfig    `yaml:"fold"`
	Grammar GrammarConfig `yaml:"grammar,omitempty"`
	UI      UIConfig      `yaml:"ui,omitempty"`
	Delimit DelimitConfig `yaml:"delimit,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Fold: FoldConfig{
			Initial: outline.DefaultFoldPolicy.String(),
			Persist: true,
		},
		Grammar: GrammarConfig{
			Default:    syntax.DefaultGrammar.String(),
			Extensions: map[string]string{},
		},
		UI: UIConfig{
			KindWidth:      15,
			HighlightStyle: "monokai",
		},
		Delimit: DelimitConfig{
			Pairs: []string{delimit.DefaultDelimiters[0].String()},
		},
	}
}

// ConfigDir returns the XDG config directory.
func ConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// StateDir returns the XDG state directory.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "state", appName)
}

// ConfigPath returns the full path to config.yaml.
func ConfigPath() string {
	dir := ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads the config file from the XDG config directory.
// Returns DefaultConfig if the file doesn't exist.
func Load() (Config, error) {
	path := ConfigPath()
	if path == "" {
		return DefaultConfig(), nil
	}
	return LoadFrom(path)
}

// LoadFrom reads config from a specific path and validates it.
// Returns DefaultConfig if the file doesn't exist.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Grammar.Extensions == nil {
		cfg.Grammar.Extensions = map[string]string{}
	}
	cfg.Grammar.Extensions = normalizeExtensions(cfg.Grammar.Extensions)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to the XDG config directory.
func Save(cfg Config) error {
	path := ConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config directory")
	}
	return SaveTo(cfg, path)
}

// SaveTo writes the config to a specific path.
func SaveTo(cfg Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate reports every invalid value, joined.
func (c Config) Validate() error {
	var errs []error
	if _, err := outline.ParseFoldPolicy(c.Fold.Initial); err != nil {
		errs = append(errs, fmt.Errorf("fold.initial: %w", err))
	}
	if _, err := syntax.ParseGrammar(c.Grammar.Default); err != nil {
		errs = append(errs, fmt.Errorf("grammar.default: %w", err))
	}
	for ext, name := range c.Grammar.Extensions {
		if _, err := syntax.ParseGrammar(name); err != nil {
			errs = append(errs, fmt.Errorf("grammar.extensions[%s]: %w", ext, err))
		}
	}
	if c.UI.KindWidth < 1 {
		errs = append(errs, fmt.Errorf("ui.kind_width: must be at least 1, got %d", c.UI.KindWidth))
	}
	if c.UI.HighlightStyle != "" {
		if _, ok := styles.Registry[strings.ToLower(c.UI.HighlightStyle)]; !ok {
			errs = append(errs, fmt.Errorf("ui.highlight_style: unknown chroma style %q", c.UI.HighlightStyle))
		}
	}
	if _, err := delimit.ParseDelimiters(c.Delimit.Pairs); err != nil {
		errs = append(errs, fmt.Errorf("delimit.pairs: %w", err))
	}
	return errors.Join(errs...)
}

// FoldPolicy returns the parsed fold.initial value.
func (c Config) FoldPolicy() outline.FoldPolicy {
	p, err := outline.ParseFoldPolicy(c.Fold.Initial)
	if err != nil {
		return outline.DefaultFoldPolicy
	}
	return p
}

// DefaultGrammar returns the parsed grammar.default value.
func (c Config) DefaultGrammar() syntax.Grammar {
	g, err := syntax.ParseGrammar(c.Grammar.Default)
	if err != nil {
		return syntax.DefaultGrammar
	}
	return g
}

// Delimiters returns the parsed delimit.pairs, or the built-in default
// when none are configured.
func (c Config) Delimiters() []delimit.Delimiter {
	ds, err := delimit.ParseDelimiters(c.Delimit.Pairs)
	if err != nil || len(ds) == 0 {
		return delimit.DefaultDelimiters
	}
	return ds
}

// normalizeExtensions lowercases keys and adds the leading dot.
func normalizeExtensions(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for ext, name := range in {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out[ext] = name
	}
	return out
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
