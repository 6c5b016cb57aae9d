package analysis

import (
	"fmt"
	"sync"

	"github.com/AALVAREZG/contraidos-processor/pkg/contracts/domain"
)

// Registry manages registered analyzer definitions
type Registry struct {
	mu          sync.RWMutex
	definitions map[string]Definition
	order       []string // Maintains registration order
}

// NewRegistry creates an empty analyzer registry
func NewRegistry() *Registry {
	return &Registry{
		definitions: make(map[string]Definition),
		order:       make([]string, 0),
	}
}

// Register adds an analyzer definition
func (r *Registry) Register(def Definition) error {
	if def.Type == "" {
		return fmt.Errorf("analysis type cannot be empty")
	}
	if def.Factory == nil {
		return fmt.Errorf("analysis type %s has no factory", def.Type)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.definitions[def.Type]; exists {
		return fmt.Errorf("analysis type %s already registered", def.Type)
	}

	r.definitions[def.Type] = def
	r.order = append(r.order, def.Type)
	return nil
}

// Create builds the analyzer registered under analysisType
func (r *Registry) Create(analysisType string, table *domain.Table, opts Options) (Analyzer, error) {
	r.mu.RLock()
	def, exists := r.definitions[analysisType]
	types := r.typesLocked()
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s (available types: %v)", ErrUnknownType, analysisType, types)
	}

	analyzer, err := def.Factory(table, opts)
	if err != nil {
		return nil, fmt.Errorf("create %s analyzer: %w", analysisType, err)
	}
	return analyzer, nil
}

// Detect builds the first registered analyzer whose detector accepts the table
func (r *Registry) Detect(table *domain.Table, opts Options) (Analyzer, error) {
	r.mu.RLock()
	defs := make([]Definition, 0, len(r.order))
	for _, t := range r.order {
		defs = append(defs, r.definitions[t])
	}
	r.mu.RUnlock()

	for _, def := range defs {
		if def.Detect != nil && def.Detect(table) {
			return r.Create(def.Type, table, opts)
		}
	}
	return nil, ErrNotDetected
}

// Has checks if an analysis type is registered
func (r *Registry) Has(analysisType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.definitions[analysisType]
	return exists
}

// Types returns all registered types in registration order
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.typesLocked()
}

func (r *Registry) typesLocked() []string {
	types := make([]string, len(r.order))
	copy(types, r.order)
	return types
}
