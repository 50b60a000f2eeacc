package hook

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Manager holds pre-save hooks in priority order.
type Manager struct {
	mu    sync.RWMutex
	hooks []PreSaveHook
}

// NewManager creates an empty hook manager.
func NewManager() *Manager {
	return &Manager{
		hooks: make([]PreSaveHook, 0),
	}
}

// RegisterPreSave adds h, replacing any hook with the same name.
func (m *Manager) RegisterPreSave(h PreSaveHook) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.hooks {
		if existing.Name() == h.Name() {
			m.hooks[i] = h
			m.sort()
			return
		}
	}

	m.hooks = append(m.hooks, h)
	m.sort()
}

// UnregisterPreSave removes the hook called name. It reports whether a hook
// was removed.
func (m *Manager) UnregisterPreSave(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, h := range m.hooks {
		if h.Name() == name {
			m.hooks = append(m.hooks[:i], m.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// IsRegistered reports whether a hook called name is registered.
func (m *Manager) IsRegistered(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, h := range m.hooks {
		if h.Name() == name {
			return true
		}
	}
	return false
}

// RunPreSave runs every hook in priority order. The first error stops the
// run and is returned wrapped with the hook's name.
func (m *Manager) RunPreSave(ctx context.Context, doc Document) error {
	m.mu.RLock()
	hooks := make([]PreSaveHook, len(m.hooks))
	copy(hooks, m.hooks)
	m.mu.RUnlock()

	for _, h := range hooks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.PreSave(ctx, doc); err != nil {
			return fmt.Errorf("pre-save hook %s: %w", h.Name(), err)
		}
	}
	return nil
}

// Count returns the number of registered hooks.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.hooks)
}

// Names returns hook names in run order.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.hooks))
	for i, h := range m.hooks {
		names[i] = h.Name()
	}
	return names
}

// Clear removes all hooks.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = m.hooks[:0]
}

// sort orders hooks by priority, highest first. Ties keep registration order.
func (m *Manager) sort() {
	sort.SliceStable(m.hooks, func(i, j int) bool {
		return m.hooks[i].Priority() > m.hooks[j].Priority()
	})
}
