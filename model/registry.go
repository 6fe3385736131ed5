package model

import (
	"fmt"
	"sort"
	"sync"
)

// The family registry maps names to Family definitions so that bundles and
// CLI consumers can construct models by name. Families register themselves in
// init() via MustRegister.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Family)
)

// Register validates and records a family under its name. Registering an
// invalid family or a duplicate name is an error.
func Register(f *Family) error {
	if err := f.Validate(); err != nil {
		return err
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[f.Name]; ok {
		return fmt.Errorf("%w: family %q already registered", ErrDefinition, f.Name)
	}
	registry[f.Name] = f
	return nil
}

// MustRegister is Register panicking on error, for init-time registration.
func MustRegister(f *Family) {
	if err := Register(f); err != nil {
		panic(err)
	}
}

// Lookup returns the registered family with the given name.
func Lookup(name string) (*Family, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// Families returns the registered family names, sorted.
func Families() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
