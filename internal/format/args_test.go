package format

import (
	"reflect"
	"strconv"
	"testing"
)

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name       string
		cfg        FormatConfig
		fillColumn int
		want       []string
	}{
		{
			name: "defaults",
			cfg:  FormatConfig{},
			want: []string{"-"},
		},
		{
			name: "fixed line length",
			cfg:  FormatConfig{LineLength: Columns(100)},
			want: []string{"--line-length", "100", "-"},
		},
		{
			name:       "fill column",
			cfg:        FormatConfig{LineLength: FillColumn()},
			fillColumn: 72,
			want:       []string{"--line-length", "72", "-"},
		},
		{
			name:       "fill column not set by host",
			cfg:        FormatConfig{LineLength: FillColumn()},
			fillColumn: 0,
			want:       []string{"--line-length", "80", "-"},
		},
		{
			name:       "negative fill column",
			cfg:        FormatConfig{LineLength: FillColumn()},
			fillColumn: -4,
			want:       []string{"--line-length", "80", "-"},
		},
		{
			name: "target version",
			cfg:  FormatConfig{TargetVersion: "py311"},
			want: []string{"--target-version", "py311", "-"},
		},
		{
			name: "legacy flag wins over target version",
			cfg:  FormatConfig{AllowPy36: true, TargetVersion: "py311"},
			want: []string{"--target-version", "py36", "-"},
		},
		{
			name: "stub file",
			cfg:  FormatConfig{IsStubFile: true},
			want: []string{"--pyi", "-"},
		},
		{
			name: "everything in order",
			cfg: FormatConfig{
				LineLength:              Columns(88),
				TargetVersion:           "py38",
				FastUnsafe:              true,
				SkipStringNormalization: true,
				IsStubFile:              true,
			},
			want: []string{
				"--line-length", "88",
				"--target-version", "py38",
				"--fast",
				"--skip-string-normalization",
				"--pyi",
				"-",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildArgs(tt.cfg, tt.fillColumn)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildArgs() = %v, want %v", got, tt.want)
			}
		})
	}
}

// allConfigs enumerates every combination of the boolean options crossed
// with each line-length and target-version policy.
func allConfigs() []FormatConfig {
	var configs []FormatConfig
	lengths := []LineLength{{}, Columns(1), Columns(120), FillColumn()}
	targets := []string{"", "py39"}

	for _, ll := range lengths {
		for _, tv := range targets {
			for mask := 0; mask < 16; mask++ {
				configs = append(configs, FormatConfig{
					LineLength:              ll,
					TargetVersion:           tv,
					AllowPy36:               mask&1 != 0,
					FastUnsafe:              mask&2 != 0,
					SkipStringNormalization: mask&4 != 0,
					IsStubFile:              mask&8 != 0,
				})
			}
		}
	}
	return configs
}

func count(args []string, flag string) int {
	n := 0
	for _, a := range args {
		if a == flag {
			n++
		}
	}
	return n
}

func TestBuildArgs_Properties(t *testing.T) {
	const fill = 66

	for _, cfg := range allConfigs() {
		args := BuildArgs(cfg, fill)

		if args[len(args)-1] != StdinMarker {
			t.Errorf("%+v: stdin marker not last in %v", cfg, args)
		}
		if count(args, StdinMarker) != 1 {
			t.Errorf("%+v: expected exactly one stdin marker in %v", cfg, args)
		}

		n := count(args, FlagLineLength)
		switch {
		case !cfg.LineLength.IsSet() && n != 0:
			t.Errorf("%+v: unexpected line length flag in %v", cfg, args)
		case cfg.LineLength.IsSet() && n != 1:
			t.Errorf("%+v: expected one line length flag in %v", cfg, args)
		case cfg.LineLength.IsSet():
			want := cfg.LineLength.Resolve(fill)
			if args[1] != strconv.Itoa(want) {
				t.Errorf("%+v: expected line length %d, got %s", cfg, want, args[1])
			}
		}

		tv := count(args, FlagTargetVersion)
		if tv > 1 {
			t.Errorf("%+v: more than one target version flag in %v", cfg, args)
		}
		if cfg.AllowPy36 {
			if tv != 1 || !containsPair(args, FlagTargetVersion, LegacyTargetVersion) {
				t.Errorf("%+v: legacy flag must select %s, got %v", cfg, LegacyTargetVersion, args)
			}
		}
	}
}

func containsPair(args []string, flag, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

func TestParseLineLength(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "fill", want: "fill"},
		{in: "FILL", want: "fill"},
		{in: "88", want: "88"},
		{in: " 100 ", want: "100"},
		{in: "0", wantErr: true},
		{in: "-4", wantErr: true},
		{in: "wide", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseLineLength(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLineLength(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got.String() != tt.want {
			t.Errorf("ParseLineLength(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOptions_FormatConfig(t *testing.T) {
	opts := Options{LineLength: FillColumn(), FastUnsafe: true}

	cfg := opts.FormatConfig(FileKindStub)
	if cfg.Executable != DefaultExecutable {
		t.Errorf("expected default executable, got %q", cfg.Executable)
	}
	if !cfg.IsStubFile || !cfg.FastUnsafe || !cfg.LineLength.IsFill() {
		t.Errorf("unexpected config %+v", cfg)
	}
	if opts.FormatConfig(FileKindPython).IsStubFile {
		t.Error("python file must not be a stub")
	}
}

func TestKindForPath(t *testing.T) {
	tests := map[string]FileKind{
		"a.py":          FileKindPython,
		"pkg/types.pyi": FileKindStub,
		"STUB.PYI":      FileKindStub,
		"README.md":     FileKindUnknown,
		"":              FileKindUnknown,
	}
	for path, want := range tests {
		if got := KindForPath(path); got != want {
			t.Errorf("KindForPath(%q) = %v, want %v", path, got, want)
		}
	}
}
