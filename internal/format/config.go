package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultExecutable is the formatter looked up on PATH when none is configured.
const DefaultExecutable = "black"

// DefaultFillColumn stands in for a host fill column that is not positive.
const DefaultFillColumn = 80

// LegacyTargetVersion is the target emitted for the deprecated AllowPy36 option.
const LegacyTargetVersion = "py36"

// LineLength is the line-length policy: unset, a fixed column count, or the
// host's fill column resolved at call time.
type LineLength struct {
	columns int
	fill    bool
}

// Columns returns a fixed line-length policy. Non-positive n means unset.
func Columns(n int) LineLength {
	if n <= 0 {
		return LineLength{}
	}
	return LineLength{columns: n}
}

// FillColumn returns the policy that follows the host's fill column.
func FillColumn() LineLength {
	return LineLength{fill: true}
}

// ParseLineLength parses "fill", a positive integer, or "" (unset).
func ParseLineLength(s string) (LineLength, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return LineLength{}, nil
	case "fill":
		return FillColumn(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return LineLength{}, fmt.Errorf("line length must be a positive integer or \"fill\", got %q", s)
	}
	return Columns(n), nil
}

// IsSet reports whether a line-length flag should be emitted.
func (l LineLength) IsSet() bool {
	return l.fill || l.columns > 0
}

// IsFill reports whether the policy follows the host's fill column.
func (l LineLength) IsFill() bool {
	return l.fill
}

// Resolve returns the column count, using fillColumn for the fill policy.
func (l LineLength) Resolve(fillColumn int) int {
	if l.fill {
		if fillColumn <= 0 {
			return DefaultFillColumn
		}
		return fillColumn
	}
	return l.columns
}

// String returns "fill", the column count, or "" when unset.
func (l LineLength) String() string {
	switch {
	case l.fill:
		return "fill"
	case l.columns > 0:
		return strconv.Itoa(l.columns)
	default:
		return ""
	}
}

// Options are the user-facing formatter settings. A host builds them from
// its own settings store; see OptionsSource.
type Options struct {
	// Executable is the formatter program, looked up on PATH if not absolute.
	Executable string

	// LineLength is passed as --line-length when set.
	LineLength LineLength

	// AllowPy36 forces --target-version py36.
	//
	// Deprecated: use TargetVersion. Kept so older settings files still work.
	AllowPy36 bool

	// TargetVersion is passed as --target-version when AllowPy36 is false.
	TargetVersion string

	// SkipStringNormalization passes --skip-string-normalization.
	SkipStringNormalization bool

	// FastUnsafe passes --fast, skipping the formatter's sanity checks.
	FastUnsafe bool

	// OnlyIfProjectOptsIn restricts format-on-save to projects whose
	// pyproject.toml has a [tool.black] section.
	OnlyIfProjectOptsIn bool

	// Timeout kills the formatter after this long. Zero disables it.
	Timeout time.Duration
}

// DefaultOptions returns the built-in option values.
func DefaultOptions() Options {
	return Options{Executable: DefaultExecutable}
}

// OptionsSource supplies the current options. It is consulted at the start
// of every format operation.
type OptionsSource interface {
	Options() Options
}

// StaticOptions is an OptionsSource that always returns itself.
type StaticOptions Options

// Options implements OptionsSource.
func (s StaticOptions) Options() Options {
	return Options(s)
}

// FormatConfig is the immutable per-invocation snapshot BuildArgs works from.
type FormatConfig struct {
	Executable              string
	LineLength              LineLength
	AllowPy36               bool
	TargetVersion           string
	SkipStringNormalization bool
	FastUnsafe              bool
	IsStubFile              bool
}

// FormatConfig snapshots o for a buffer of the given kind.
func (o Options) FormatConfig(kind FileKind) FormatConfig {
	exe := o.Executable
	if exe == "" {
		exe = DefaultExecutable
	}
	return FormatConfig{
		Executable:              exe,
		LineLength:              o.LineLength,
		AllowPy36:               o.AllowPy36,
		TargetVersion:           o.TargetVersion,
		SkipStringNormalization: o.SkipStringNormalization,
		FastUnsafe:              o.FastUnsafe,
		IsStubFile:              kind == FileKindStub,
	}
}
