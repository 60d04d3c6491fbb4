package qlang

import (
	"sync"

	"github.com/google/uuid"

	"github.com/clarete/qlang/lock"
)

// Program is the top-level registry an embedder creates once per
// running script: the global variable scope, the
// function and class tables, the module registry, and the lock
// manager every thread spawned from it shares. Grounded structurally
// on the teacher's "one registry object owns everything reachable
// from it" shape.
type Program struct {
	ID uuid.UUID

	Mgr     *lock.Manager
	Globals *Scope
	Modules *ModuleRegistry

	mu        sync.RWMutex
	functions map[string]*Callable
	classes   map[string]*Class
}

func NewProgram() *Program {
	return &Program{
		ID:        uuid.New(),
		Mgr:       lock.NewManager(),
		Globals:   NewScope(nil),
		Modules:   NewModuleRegistry(),
		functions: make(map[string]*Callable),
		classes:   make(map[string]*Class),
	}
}

// NewThread registers a new thread of execution against this
// program's lock manager.
func (p *Program) NewThread() *ThreadState { return NewThread(p.Mgr) }

func (p *Program) DeclareFunction(c *Callable) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.functions[c.Name] = c
}

func (p *Program) LookupFunction(name string) (*Callable, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.functions[name]
	return c, ok
}

func (p *Program) DeclareClass(c *Class) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.classes[c.Name] = c
}

func (p *Program) LookupClass(name string) (*Class, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	c, ok := p.classes[name]
	return c, ok
}
