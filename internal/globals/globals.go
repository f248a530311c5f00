// Package globals holds the process-wide table of advertised globals,
// the only state shared across client connections.
package globals

import (
	"sync"

	"github.com/wlbind/waycompd/internal/constants"
	"github.com/wlbind/waycompd/internal/wire"
)

// Global is one (name, interface, version) triple advertised to clients.
type Global struct {
	Name      uint32
	Interface string
	Version   uint32
}

// Table is a mutex-protected, process-wide ordered sequence of globals.
// Readers take a Snapshot for the duration of handling one request; a
// hypothetical writer (not exercised by the core interfaces) would call
// Publish to append a new global, guarded by the same lock.
type Table struct {
	mu      sync.RWMutex
	globals []Global
}

// NewDefaultTable returns the table pre-populated with the core's three
// default globals: shm, compositor, and the xdg_wm_base placeholder.
func NewDefaultTable() *Table {
	return &Table{
		globals: []Global{
			{Name: constants.GlobalNameShm, Interface: wire.InterfaceShm, Version: constants.VersionShm},
			{Name: constants.GlobalNameCompositor, Interface: wire.InterfaceCompositor, Version: constants.VersionCompositor},
			{Name: constants.GlobalNameXdgWmBase, Interface: wire.InterfaceXdgWmBase, Version: constants.VersionXdgWmBase},
		},
	}
}

// Snapshot returns a copy of the globals table as it stands at the moment of
// the call, safe for the caller to range over without holding any lock.
func (t *Table) Snapshot() []Global {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]Global, len(t.globals))
	copy(out, t.globals)
	return out
}

// Lookup finds the global with the given name, if advertised.
func (t *Table) Lookup(name uint32) (Global, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, g := range t.globals {
		if g.Name == name {
			return g, true
		}
	}
	return Global{}, false
}

// Publish appends a new global to the table under the write lock. Not
// exercised by the core interface set, but kept as the extension point §4.7
// describes for a future collaborator that registers outputs or the shell.
func (t *Table) Publish(g Global) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.globals = append(t.globals, g)
}
