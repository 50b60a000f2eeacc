package format

import "strconv"

// Formatter command-line flags.
const (
	FlagLineLength              = "--line-length"
	FlagTargetVersion           = "--target-version"
	FlagFast                    = "--fast"
	FlagSkipStringNormalization = "--skip-string-normalization"
	FlagPyi                     = "--pyi"

	// StdinMarker tells the formatter to read stdin and write stdout.
	// The formatter expects every flag before it.
	StdinMarker = "-"
)

// BuildArgs returns the formatter arguments for cfg. fillColumn resolves the
// fill line-length policy. The result always ends with StdinMarker.
func BuildArgs(cfg FormatConfig, fillColumn int) []string {
	args := make([]string, 0, 8)

	if cfg.LineLength.IsSet() {
		args = append(args, FlagLineLength, strconv.Itoa(cfg.LineLength.Resolve(fillColumn)))
	}

	switch {
	case cfg.AllowPy36:
		args = append(args, FlagTargetVersion, LegacyTargetVersion)
	case cfg.TargetVersion != "":
		args = append(args, FlagTargetVersion, cfg.TargetVersion)
	}

	if cfg.FastUnsafe {
		args = append(args, FlagFast)
	}
	if cfg.SkipStringNormalization {
		args = append(args, FlagSkipStringNormalization)
	}
	if cfg.IsStubFile {
		args = append(args, FlagPyi)
	}

	return append(args, StdinMarker)
}
