package ui

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/zeebo/blake3"

	"github.com/vanderheijden86/structless/pkg/debug"
	"github.com/vanderheijden86/structless/pkg/syntax"
)

// FoldState is the remembered fold set of one input file.
//
// File format (JSON):
//
//	{
//	  "version": 1,
//	  "grammar": "json",
//	  "folded": ["0.1", "0.1.2"]
//	}
//
// Folded holds tree paths (syntax.FormatPath). A state saved under another
// grammar or version is ignored, as is a corrupted file.
type FoldState struct {
	Version int      `json:"version"`
	Grammar string   `json:"grammar"`
	Folded  []string `json:"folded"`
}

// FoldStateVersion is the current schema version for fold persistence.
const FoldStateVersion = 1

// FoldStore reads and writes fold states under <state dir>/folds, one file
// per input named by the BLAKE3 hash of its absolute path.
type FoldStore struct {
	dir string
}

// NewFoldStore returns a store below stateDir. An empty stateDir returns
// nil, and a nil store ignores every call.
func NewFoldStore(stateDir string) *FoldStore {
	if stateDir == "" {
		return nil
	}
	return &FoldStore{dir: filepath.Join(stateDir, "folds")}
}

// Path returns the state file for input.
func (s *FoldStore) Path(input string) (string, error) {
	abs, err := filepath.Abs(input)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256([]byte(abs))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:16])+".json"), nil
}

// Load returns the folded paths remembered for input under grammar g.
func (s *FoldStore) Load(input string, g syntax.Grammar) ([]string, bool) {
	if s == nil {
		return nil, false
	}
	path, err := s.Path(input)
	if err != nil {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var state FoldState
	if err := json.Unmarshal(data, &state); err != nil {
		debug.Log("invalid fold state %s, using defaults: %v", path, err)
		return nil, false
	}
	if state.Version != FoldStateVersion || state.Grammar != g.String() {
		debug.Log("fold state %s is for %s v%d, ignoring", path, state.Grammar, state.Version)
		return nil, false
	}
	return state.Folded, true
}

// Save writes the folded paths of input. The file is replaced atomically.
func (s *FoldStore) Save(input string, g syntax.Grammar, folded []string) error {
	if s == nil {
		return nil
	}
	path, err := s.Path(input)
	if err != nil {
		return err
	}
	if folded == nil {
		folded = []string{}
	}
	data, err := json.MarshalIndent(FoldState{
		Version: FoldStateVersion,
		Grammar: g.String(),
		Folded:  folded,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling fold state: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, ".folds-*.json")
	if err != nil {
		return fmt.Errorf("writing fold state: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing fold state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing fold state: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing fold state: %w", err)
	}
	return nil
}
