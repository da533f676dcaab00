package lint

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Factory creates a fresh rule instance.
type Factory func() Rule

// globalRegistry is the single global registry for builtin rules.
var globalRegistry = &Registry{
	factories: make(map[string]Factory),
}

// Registry stores rule factories for discovery.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory // keyed by rule name
}

// Register adds a rule factory to the global registry.
// Call this from init() functions in rule packages.
func Register(factory Factory) {
	name := factory().Name()
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.factories[name] = factory
}

// Names returns the registered rule names, sorted.
func Names() []string {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	names := make([]string, 0, len(globalRegistry.factories))
	for name := range globalRegistry.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	f, ok := globalRegistry.factories[name]
	return f, ok
}

// Count returns the number of registered rules.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.factories)
}

// Clear removes all registered rules. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.factories = make(map[string]Factory)
}

// AddRegistered binds a fresh instance of every registered rule, in name
// order. With only set, the other rules are left out.
func (l *Linter) AddRegistered(only ...string) error {
	for _, name := range Names() {
		if len(only) > 0 && !slices.Contains(only, name) {
			continue
		}
		factory, _ := Lookup(name)
		if err := l.Add(factory()); err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
	}
	return nil
}

// DefaultDocsBaseURL is the hosted documentation site.
const DefaultDocsBaseURL = "https://ttcnlint.dev/docs/rules"

// DocsBaseURL can be overridden via config for local/offline mode.
var DocsBaseURL = DefaultDocsBaseURL

// BuildDocURL constructs a documentation URL for a rule.
func BuildDocURL(name string) string {
	return fmt.Sprintf("%s/%s", DocsBaseURL, strings.ToLower(name))
}

// SetDocsBaseURL overrides the default documentation base URL.
func SetDocsBaseURL(url string) {
	DocsBaseURL = strings.TrimSuffix(url, "/")
}
