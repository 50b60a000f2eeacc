package loader

import (
	"os"
	"strings"
)

// DefaultEnvPrefix is the prefix of blacken environment variables.
const DefaultEnvPrefix = "BLACKEN_"

// EnvLoader loads settings from environment variables.
//
// BLACKEN_LINE_LENGTH=fill becomes {"line-length": "fill"}. Values stay
// strings; the config package converts them to the setting's type.
type EnvLoader struct {
	prefix  string
	keys    map[string]bool
	environ func() []string
}

// NewEnvLoader creates a loader that accepts the given setting keys.
// Variables with the prefix that map to other keys are ignored, so
// unrelated variables such as BLACKEN_CONFIG never reach the settings.
func NewEnvLoader(prefix string, keys ...string) *EnvLoader {
	l := &EnvLoader{
		prefix:  prefix,
		keys:    make(map[string]bool, len(keys)),
		environ: os.Environ,
	}
	for _, k := range keys {
		l.keys[k] = true
	}
	return l
}

// WithEnviron replaces the environment source, for tests.
func (l *EnvLoader) WithEnviron(environ func() []string) *EnvLoader {
	l.environ = environ
	return l
}

// Load returns the recognised variables. Empty values are kept; they
// explicitly reset a setting.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}

		key := l.EnvToKey(name)
		if !l.keys[key] {
			continue
		}
		config[key] = value
	}

	return config, nil
}

// EnvToKey converts BLACKEN_SKIP_STRING_NORMALIZATION to
// skip-string-normalization.
func (l *EnvLoader) EnvToKey(env string) string {
	name := strings.TrimPrefix(env, l.prefix)
	return strings.ReplaceAll(strings.ToLower(name), "_", "-")
}

// KeyToEnv is the inverse of EnvToKey.
func (l *EnvLoader) KeyToEnv(key string) string {
	return l.prefix + strings.ReplaceAll(strings.ToUpper(key), "-", "_")
}
