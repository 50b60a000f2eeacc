package config

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dshills/blacken/internal/format"
	"github.com/dshills/blacken/internal/logging"
)

// Setting keys, as written in settings files. Environment variables use the
// upper-case form with a BLACKEN_ prefix and underscores.
const (
	KeyExecutable              = "executable"
	KeyLineLength              = "line-length"
	KeyAllowPy36               = "allow-py36"
	KeyTargetVersion           = "target-version"
	KeySkipStringNormalization = "skip-string-normalization"
	KeyFastUnsafe              = "fast-unsafe"
	KeyOnlyIfProjectOptsIn     = "only-if-project-opts-in"
	KeyTimeout                 = "timeout"
	KeyLogLevel                = "log-level"
)

// Keys returns every recognised setting key.
func Keys() []string {
	return []string{
		KeyExecutable,
		KeyLineLength,
		KeyAllowPy36,
		KeyTargetVersion,
		KeySkipStringNormalization,
		KeyFastUnsafe,
		KeyOnlyIfProjectOptsIn,
		KeyTimeout,
		KeyLogLevel,
	}
}

// Settings is the merged configuration.
type Settings struct {
	format.Options

	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Options:  format.DefaultOptions(),
		LogLevel: "info",
	}
}

// apply sets each key in m on s. It stops at the first invalid entry.
func (s *Settings) apply(m map[string]any) error {
	// Fixed order so the reported error is deterministic.
	for _, key := range Keys() {
		v, ok := m[key]
		if !ok {
			continue
		}
		if err := s.set(key, v); err != nil {
			return err
		}
	}
	for key, v := range m {
		if !isKey(key) {
			return &ValidationError{Key: key, Value: v, Reason: "unknown setting", Err: ErrUnknownSetting}
		}
	}
	return nil
}

func (s *Settings) set(key string, v any) error {
	var err error
	switch key {
	case KeyExecutable:
		var exe string
		if exe, err = toString(key, v); err == nil {
			if exe == "" {
				exe = format.DefaultExecutable
			}
			s.Executable = exe
		}
	case KeyLineLength:
		s.LineLength, err = toLineLength(key, v)
	case KeyAllowPy36:
		s.AllowPy36, err = toBool(key, v)
	case KeyTargetVersion:
		s.TargetVersion, err = toString(key, v)
	case KeySkipStringNormalization:
		s.SkipStringNormalization, err = toBool(key, v)
	case KeyFastUnsafe:
		s.FastUnsafe, err = toBool(key, v)
	case KeyOnlyIfProjectOptsIn:
		s.OnlyIfProjectOptsIn, err = toBool(key, v)
	case KeyTimeout:
		s.Timeout, err = toDuration(key, v)
	case KeyLogLevel:
		var level string
		if level, err = toString(key, v); err == nil {
			if level == "" {
				level = "info"
			}
			if !logging.ValidLevel(level) {
				return &ValidationError{Key: key, Value: v, Reason: "must be debug, info, warn or error", Err: ErrInvalidValue}
			}
			s.LogLevel = strings.ToLower(level)
		}
	default:
		return &ValidationError{Key: key, Value: v, Reason: "unknown setting", Err: ErrUnknownSetting}
	}
	return err
}

func isKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

func mismatch(key string, v any, want string) error {
	return &ValidationError{
		Key:    key,
		Value:  v,
		Reason: "expected " + want + ", got " + typeName(v),
		Err:    ErrTypeMismatch,
	}
}

func toString(key string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", mismatch(key, v, "string")
	}
	return strings.TrimSpace(s), nil
}

// toBool accepts booleans and, for environment variables, their string
// spellings.
func toBool(key string, v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		if strings.TrimSpace(b) == "" {
			return false, nil
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, &ValidationError{Key: key, Value: v, Reason: "not a boolean", Err: ErrInvalidValue}
		}
		return parsed, nil
	default:
		return false, mismatch(key, v, "bool")
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return int(n), true
	case uint64:
		if n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

func toLineLength(key string, v any) (format.LineLength, error) {
	if s, ok := v.(string); ok {
		ll, err := format.ParseLineLength(s)
		if err != nil {
			return format.LineLength{}, &ValidationError{Key: key, Value: v, Reason: err.Error(), Err: ErrInvalidValue}
		}
		return ll, nil
	}
	n, ok := toInt(v)
	if !ok {
		return format.LineLength{}, mismatch(key, v, "integer or \"fill\"")
	}
	if n <= 0 {
		return format.LineLength{}, &ValidationError{Key: key, Value: v, Reason: "must be positive", Err: ErrInvalidValue}
	}
	return format.Columns(n), nil
}

// toDuration accepts a Go duration string or a number of seconds.
func toDuration(key string, v any) (time.Duration, error) {
	var d time.Duration
	switch t := v.(type) {
	case string:
		t = strings.TrimSpace(t)
		if t == "" {
			return 0, nil
		}
		parsed, err := time.ParseDuration(t)
		if err != nil {
			secs, aerr := strconv.Atoi(t)
			if aerr != nil {
				return 0, &ValidationError{Key: key, Value: v, Reason: "not a duration", Err: ErrInvalidValue}
			}
			parsed = time.Duration(secs) * time.Second
		}
		d = parsed
	default:
		n, ok := toInt(v)
		if !ok {
			return 0, mismatch(key, v, "duration")
		}
		d = time.Duration(n) * time.Second
	}
	if d < 0 {
		return 0, &ValidationError{Key: key, Value: v, Reason: "must not be negative", Err: ErrInvalidValue}
	}
	return d, nil
}
