// Package hook provides explicit pre-save subscriptions.
//
// Hooks are registered by name with a Manager owned by the host. The
// Manager runs them in priority order (higher first) before a document is
// written. Registering a hook under an existing name replaces it, so
// turning a mode on twice is harmless.
//
//	m := hook.NewManager()
//	m.RegisterPreSave(hook.NewPreSaveFunc("blacken", hook.PriorityFormat, fn))
//	defer m.UnregisterPreSave("blacken")
//
//	if err := m.RunPreSave(ctx, doc); err != nil {
//	    // a hook vetoed the save
//	}
//
// A hook returning an error vetoes the save; hooks that only want to report
// problems should log them and return nil.
package hook
