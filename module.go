package qlang

import "sync"

// ModuleInfo is one loadable module's exported symbol table: a name,
// version, and the functions/classes it contributes to a Program.
type ModuleInfo struct {
	Name      string
	Version   string
	Functions map[string]*Callable
	Classes   map[string]*Class
}

func NewModuleInfo(name, version string) *ModuleInfo {
	return &ModuleInfo{Name: name, Version: version, Functions: make(map[string]*Callable), Classes: make(map[string]*Class)}
}

// ModuleRegistry is the process-wide table of loaded modules
// (original_source/lib/ModuleManager.cc's ModuleManager singleton).
// Dynamic loading of compiled plugins has no portable Go equivalent,
// so registration here is static: a module is whatever an embedder
// builds and hands to Register — the registry's job is purely the
// name/version lookup and conflict checking ModuleManager.cc does.
type ModuleRegistry struct {
	mu      sync.RWMutex
	modules map[string]*ModuleInfo
}

func NewModuleRegistry() *ModuleRegistry {
	return &ModuleRegistry{modules: make(map[string]*ModuleInfo)}
}

// Register adds m, raising MODULE-LOAD-ERROR into sink if a module of
// the same name is already registered with a different version.
func (r *ModuleRegistry) Register(m *ModuleInfo, sink *Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.modules[m.Name]; ok {
		if existing.Version != m.Version && sink != nil {
			sink.Raise("MODULE-LOAD-ERROR",
				"module "+m.Name+" already loaded at version "+existing.Version+", requested "+m.Version,
				nil, nil)
		}
		return
	}
	r.modules[m.Name] = m
}

// Find looks up a loaded module by name, raising MODULE-NOT-FOUND
// into sink on a miss — module.go always takes a sink rather than
// offering the original's silent lookup variant, so failures always
// surface.
func (r *ModuleRegistry) Find(name string, sink *Sink) *ModuleInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.modules[name]
	if !ok {
		if sink != nil {
			sink.Raise("MODULE-NOT-FOUND", "no module named "+name, nil, nil)
		}
		return nil
	}
	return m
}

// Unregister removes a module, e.g. on an embedder's explicit unload.
func (r *ModuleRegistry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.modules, name)
}
