package orchestration

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/agbru/matcalc/internal/matrix"
	"github.com/agbru/matcalc/internal/progress"
	"github.com/agbru/matcalc/internal/strassen"
)

// Registry names of the built-in algorithms.
const (
	AlgoStrassen = "strassen"
	AlgoNaive    = "naive"
)

type strassenMultiplier struct{ engine *strassen.Engine }

func (m strassenMultiplier) Name() string { return AlgoStrassen }

func (m strassenMultiplier) Multiply(ctx context.Context, a, b *matrix.Matrix, report progress.ProgressCallback) (*matrix.Matrix, error) {
	return m.engine.FastMultiplyWithProgress(ctx, a, b, report)
}

type naiveMultiplier struct{ engine *strassen.Engine }

func (m naiveMultiplier) Name() string { return AlgoNaive }

func (m naiveMultiplier) Multiply(ctx context.Context, a, b *matrix.Matrix, report progress.ProgressCallback) (*matrix.Matrix, error) {
	return m.engine.MultiplyWithProgress(ctx, a, b, report)
}

// Registry maps algorithm names to multipliers.
type Registry struct {
	mu          sync.RWMutex
	multipliers map[string]Multiplier
}

// NewRegistry returns a registry holding the Strassen and naive multipliers,
// both backed by engine.
func NewRegistry(engine *strassen.Engine) *Registry {
	r := &Registry{multipliers: make(map[string]Multiplier)}
	r.Register(strassenMultiplier{engine: engine})
	r.Register(naiveMultiplier{engine: engine})
	return r
}

// Register adds m under m.Name(), replacing any previous entry.
func (r *Registry) Register(m Multiplier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.multipliers[m.Name()] = m
}

// Get returns the multiplier registered under name.
func (r *Registry) Get(name string) (Multiplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.multipliers[name]
	if !ok {
		return nil, fmt.Errorf("unknown algorithm %q", name)
	}
	return m, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.multipliers))
	for name := range r.multipliers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// GetMultipliersToRun resolves an --algo value: "all" selects every
// registered multiplier in name order.
func GetMultipliersToRun(algo string, registry *Registry) []Multiplier {
	names := []string{algo}
	if algo == "all" {
		names = registry.List()
	}
	selected := make([]Multiplier, 0, len(names))
	for _, name := range names {
		if m, err := registry.Get(name); err == nil {
			selected = append(selected, m)
		}
	}
	return selected
}
