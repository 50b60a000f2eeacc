// Package config provides the settings store for blacken.
//
// Settings are merged from layers, with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Overrides (Set)         │  ← command-line flags, highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← BLACKEN_LINE_LENGTH=fill
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← ~/.config/blacken/blacken.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// The settings file may be TOML or YAML; the extension decides.
//
//	executable = "black"
//	line-length = "fill"            # or a column count
//	target-version = "py311"
//	skip-string-normalization = false
//	fast-unsafe = false
//	only-if-project-opts-in = true
//	timeout = "10s"
//	log-level = "info"
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment variable loading
//   - watcher: File watching for live reload
//
// # Basic Usage
//
//	store := config.NewStore(config.DefaultPath())
//	if err := store.Reload(); err != nil {
//	    log.Fatal(err)
//	}
//	f := format.New(store)
//
// A Store is a format.OptionsSource, so the formatter sees reloaded
// values at the start of its next operation.
package config
