package blocks

import (
	"errors"
	"fmt"

	"panelbar/config"
)

// Constructor builds a block from the shared settings and its declaration.
// Errors should name the missing or invalid field.
type Constructor func(Settings, config.Block) (Block, error)

// ErrUnknownModule is returned for a declaration whose module is not
// registered.
var ErrUnknownModule = errors.New("unknown module")

// Registry maps module names to constructors. It is built once at startup
// and handed to whoever turns declarations into blocks.
type Registry struct {
	ctors map[string]Constructor
	order []string
}

// NewRegistry returns a registry with the built-in modules: text, command,
// cpu, mem and time.
func NewRegistry() *Registry {
	r := &Registry{ctors: map[string]Constructor{}}
	r.Register("text", NewTextBlock)
	r.Register("command", NewCommandBlock)
	r.Register("cpu", NewCPUBlock)
	r.Register("mem", NewMemoryBlock)
	r.Register("time", NewTimeBlock)
	return r
}

// Register adds a constructor. Registering an existing name replaces the
// constructor but keeps its original position in Names.
func (r *Registry) Register(name string, c Constructor) {
	if _, exists := r.ctors[name]; !exists {
		r.order = append(r.order, name)
	}
	r.ctors[name] = c
}

// Names returns the registered module names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Build constructs the block declared by d.
func (r *Registry) Build(s Settings, d config.Block) (Block, error) {
	if d.Module == "" {
		return nil, fmt.Errorf("missing field %q", "module")
	}
	ctor, ok := r.ctors[d.Module]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownModule, d.Module)
	}
	b, err := ctor(s, d)
	if err != nil {
		return nil, fmt.Errorf("%s module: %w", d.Module, err)
	}
	return b, nil
}

// BuildGroups constructs every declared block, keeping the order of each
// alignment section. The first failure aborts with the block's position.
func (r *Registry) BuildGroups(s Settings, cfg *config.Config) (Groups, error) {
	var g Groups
	sections := [3][]config.Block{cfg.Left, cfg.Center, cfg.Right}
	for i, decls := range sections {
		align := Alignment(i)
		for n, d := range decls {
			b, err := r.Build(s, d)
			if err != nil {
				return Groups{}, fmt.Errorf("%s block %d: %w", align, n+1, err)
			}
			g[align] = append(g[align], b)
		}
	}
	return g, nil
}
