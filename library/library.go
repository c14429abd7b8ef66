// Package library stores decoded programs and configurations as JSON files
// in a directory. It persists the domain model, never the wire format.
package library

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/noizetoys/Astoria-Four-Pole-sub008/fourpole"
)

const (
	programSuffix     = ".program.json"
	configurationName = "configuration.json"
)

// Store is a patch library rooted at one directory.
type Store struct {
	dir string
}

// OpenStore creates the directory if needed and returns a store over it.
func OpenStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create library directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) programPath(name string) string {
	return filepath.Join(s.dir, name+programSuffix)
}

// SaveProgram writes a program under the given file name (without suffix).
func (s *Store) SaveProgram(name string, p *fourpole.Program) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal program: %w", err)
	}
	if err := os.WriteFile(s.programPath(name), data, 0o644); err != nil {
		return fmt.Errorf("failed to write program %q: %w", name, err)
	}
	return nil
}

// LoadProgram reads one program by file name.
func (s *Store) LoadProgram(name string) (*fourpole.Program, error) {
	data, err := os.ReadFile(s.programPath(name))
	if err != nil {
		return nil, fmt.Errorf("failed to read program %q: %w", name, err)
	}
	p := &fourpole.Program{}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse program %q: %w", name, err)
	}
	return p, nil
}

// LoadAll reads every stored program, sorted by file name. Individually
// unreadable or unparsable entries are skipped, not fatal: the batch keeps
// going and the skipped file names are returned so callers can report them.
func (s *Store) LoadAll() ([]*fourpole.Program, []string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read library directory: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), programSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), programSuffix))
	}
	sort.Strings(names)

	var programs []*fourpole.Program
	var skipped []string
	for _, name := range names {
		p, err := s.LoadProgram(name)
		if err != nil {
			log.Printf("skipping program %q: %v", name, err)
			skipped = append(skipped, name)
			continue
		}
		programs = append(programs, p)
	}
	return programs, skipped, nil
}

// SaveConfiguration writes the full device memory. A configuration without
// exactly 20 programs is rejected before anything touches disk.
func (s *Store) SaveConfiguration(c *fourpole.Configuration) error {
	if len(c.Programs) != fourpole.EditableSlots {
		return fmt.Errorf("refusing to save configuration with %d programs", len(c.Programs))
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal configuration: %w", err)
	}
	path := filepath.Join(s.dir, configurationName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	return nil
}

// LoadConfiguration reads the stored device memory.
func (s *Store) LoadConfiguration() (*fourpole.Configuration, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, configurationName))
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	c := &fourpole.Configuration{}
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if len(c.Programs) != fourpole.EditableSlots {
		return nil, fmt.Errorf("stored configuration holds %d programs, want %d",
			len(c.Programs), fourpole.EditableSlots)
	}
	return c, nil
}
