package dataprocessing

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
)

// ParserRegistry selects a parser for a file, first match wins
type ParserRegistry struct {
	mu      sync.RWMutex
	parsers []FileParser
}

// NewParserRegistry creates a registry with the given parsers, in order
func NewParserRegistry(parsers ...FileParser) *ParserRegistry {
	r := &ParserRegistry{}
	for _, p := range parsers {
		r.Register(p)
	}
	return r
}

// Register appends a parser
func (r *ParserRegistry) Register(p FileParser) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.parsers = append(r.parsers, p)
}

// ParserFor returns the first parser that can handle path
func (r *ParserRegistry) ParserFor(path string) (FileParser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.parsers))
	for _, p := range r.parsers {
		if p.CanHandle(path) {
			return p, nil
		}
		names = append(names, p.Name())
	}
	return nil, fmt.Errorf("%w: %s (supported parsers: %v)", ErrNoParser, filepath.Base(path), names)
}

// SupportedExtensions returns the sorted union of parser extensions
func (r *ParserRegistry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, p := range r.parsers {
		for _, ext := range p.Extensions() {
			seen[ext] = struct{}{}
		}
	}
	exts := make([]string, 0, len(seen))
	for ext := range seen {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
