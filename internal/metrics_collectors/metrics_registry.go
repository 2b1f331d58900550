package metrics_collectors

import (
	"fmt"
	"sort"

	"github.com/benmeehan/procbench/internal/models"
)

// Names of the built-in collection strategies.
const (
	StrategySequential = "procfs"
	StrategyConcurrent = "procfs-parallel"
	StrategyHybrid     = "hybrid"
)

// Settings are the construction parameters handed to every factory.
type Settings struct {
	Options models.CollectorOptions
	Workers int // only used by concurrent strategies
}

// Factory builds a collector for a loaded environment.
type Factory func(env *Environment, settings Settings) ProcessCollector

// CollectorRegistry maps strategy names to their factories.
type CollectorRegistry struct {
	factories map[string]Factory
}

// NewCollectorRegistry creates an empty CollectorRegistry.
func NewCollectorRegistry() *CollectorRegistry {
	return &CollectorRegistry{
		factories: make(map[string]Factory),
	}
}

// DefaultRegistry returns a registry holding the built-in strategies.
func DefaultRegistry() *CollectorRegistry {
	r := NewCollectorRegistry()
	r.Register(StrategySequential, func(env *Environment, s Settings) ProcessCollector {
		return NewSequentialCollector(env, s.Options)
	})
	r.Register(StrategyConcurrent, func(env *Environment, s Settings) ProcessCollector {
		return NewConcurrentCollector(env, s.Options, s.Workers)
	})
	r.Register(StrategyHybrid, func(env *Environment, s Settings) ProcessCollector {
		return NewHybridCollector(env, s.Options)
	})
	return r
}

// Register adds or replaces the factory for name.
func (r *CollectorRegistry) Register(name string, factory Factory) {
	r.factories[name] = factory
}

// New builds the collector registered under name.
func (r *CollectorRegistry) New(name string, env *Environment, settings Settings) (ProcessCollector, error) {
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown collector %q", name)
	}
	return factory(env, settings), nil
}

// Names returns the registered strategy names in sorted order.
func (r *CollectorRegistry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
