package grammar

import (
	"fmt"
	"sort"
	"strings"
)

// Registry resolves grammar descriptors by language tag or file extension.
// A zero registry is not usable; construct with NewRegistry.
type Registry struct {
	byName map[string]*Descriptor
	byExt  map[string]*Descriptor
}

// NewRegistry returns a registry pre-populated with the builtin languages.
func NewRegistry() *Registry {
	r := &Registry{
		byName: make(map[string]*Descriptor),
		byExt:  make(map[string]*Descriptor),
	}
	for _, d := range []Descriptor{
		rustDescriptor,
		goDescriptor,
		pythonDescriptor,
		cDescriptor,
		cppDescriptor,
		javaDescriptor,
	} {
		// builtins проходят Validate в тестах; здесь копия, чтобы
		// пользовательские правки Register не трогали исходные значения
		if err := r.Register(d); err != nil {
			panic(fmt.Errorf("builtin grammar %s: %w", d.Name, err))
		}
	}
	return r
}

// Register validates and adds a descriptor, replacing a same-named one.
// Later registrations win on extension conflicts, so user descriptors from
// configuration can shadow builtins.
func (r *Registry) Register(d Descriptor) error {
	if err := d.Validate(); err != nil {
		return err
	}
	copied := d
	r.byName[strings.ToLower(d.Name)] = &copied
	for _, ext := range d.Extensions {
		r.byExt[strings.ToLower(ext)] = &copied
	}
	return nil
}

// ByName returns the descriptor for a language tag ("rust", "go").
func (r *Registry) ByName(name string) (*Descriptor, bool) {
	d, ok := r.byName[strings.ToLower(name)]
	return d, ok
}

// ByExtension returns the descriptor for a file extension (".rs").
func (r *Registry) ByExtension(ext string) (*Descriptor, bool) {
	d, ok := r.byExt[strings.ToLower(ext)]
	return d, ok
}

// ForPath resolves a descriptor from the file path's extension.
func (r *Registry) ForPath(path string) (*Descriptor, bool) {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return nil, false
	}
	return r.ByExtension(path[idx:])
}

// Names returns all registered language tags in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
