package dialect

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Dialect registry
var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Fragments)
)

// ErrUnknownDialect is returned by Lookup for unregistered names.
var ErrUnknownDialect = errors.New("unknown dialect")

// Register adds f to the registry under f.Name(), replacing any previous
// entry. Built-in dialects register themselves in init.
func Register(f *Fragments) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[f.Name()] = f
}

// Get returns a dialect by name (case-insensitive).
func Get(name string) (*Fragments, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[strings.ToLower(name)]
	return f, ok
}

// Lookup is Get with an error naming the known dialects.
func Lookup(name string) (*Fragments, error) {
	f, ok := Get(name)
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownDialect, name, strings.Join(Names(), ", "))
	}
	return f, nil
}

// Names returns all registered dialect names (sorted).
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
