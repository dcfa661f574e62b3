// Package steps implements the step handler registry and built-in
// handlers described in spec.md §4.4/§4.5: a plugin architecture where
// standard and custom steps share one dispatch interface. Grounded on
// original_source's tool/src/steps/registry.py, ported from a runtime
// Protocol check onto Go's static interface satisfaction.
package steps

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-rod/rod"
	"log/slog"

	"github.com/kawanishi0117/flowrunner/internal/artifacts"
	"github.com/kawanishi0117/flowrunner/internal/scenario"
	"github.com/kawanishi0117/flowrunner/internal/selector"
)

// StepContext carries the shared collaborators every handler's Execute
// needs: the selector resolver, the variable expander, the artifacts
// manager (nil means no artifacts), and console errors observed so far
// (used by assert_no_console_error).
type StepContext struct {
	Resolver  *selector.Resolver
	Expander  *scenario.Expander
	Artifacts *artifacts.Manager

	mu            sync.Mutex
	ConsoleErrors []string
}

// AppendConsoleError records a console error observed on the page.
func (c *StepContext) AppendConsoleError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ConsoleErrors = append(c.ConsoleErrors, msg)
}

// Handler is the capability pair every step kind implements: Execute runs
// the step, DescribeSchema returns its name, category, and description.
type Handler interface {
	Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error
	DescribeSchema() Schema
}

// Schema describes a handler by name, category, and a one-line
// description; it lists no parameters. Neither the runner nor the linter
// reads it, and it takes no part in validation (validation stays at the
// parse layer per spec.md §9).
type Schema struct {
	Name        string
	Category    string
	Description string
}

// Registry maps step kind names to handlers. Registering an existing name
// overwrites it, logging a warning — mirrors registry.py's override
// behavior so plugin steps can shadow built-ins deliberately.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds or replaces the handler for name.
func (r *Registry) Register(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.handlers[name]; exists {
		slog.Warn("overwriting step handler", "step", name)
	}
	r.handlers[name] = h
}

// UnknownStepKind is raised on a registry lookup miss.
type UnknownStepKind struct {
	Kind       string
	Registered []string
}

func (e *UnknownStepKind) Error() string {
	return fmt.Sprintf("step kind %q is not registered; registered steps: %v", e.Kind, e.Registered)
}

// Get looks up a handler by name.
func (r *Registry) Get(name string) (Handler, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	if !ok {
		return nil, &UnknownStepKind{Kind: name, Registered: r.namesLocked()}
	}
	return h, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[name]
	return ok
}

// Names returns every registered step name, alphabetically sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.handlers))
	for k := range r.handlers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
