// Package main is the entry point for the blacken command.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/blacken/internal/app"
	"github.com/dshills/blacken/internal/config"
	"github.com/dshills/blacken/internal/format"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// errFailed signals that failures were already reported per file.
var errFailed = errors.New("one or more files failed")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := newRootCmd(stdin, stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// cliOptions holds the flag values.
type cliOptions struct {
	configPath    string
	noConfig      bool
	check         bool
	onSave        bool
	stdinFilename string
	logLevel      string
	jobs          int
	quiet         bool

	executable              string
	lineLength              string
	targetVersion           string
	allowPy36               bool
	skipStringNormalization bool
	fastUnsafe              bool
	onlyIfProjectOptsIn     bool
	timeout                 time.Duration
}

// settingFlags maps flags that override a setting to the setting key.
var settingFlags = map[string]string{
	"executable":                config.KeyExecutable,
	"line-length":               config.KeyLineLength,
	"target-version":            config.KeyTargetVersion,
	"allow-py36":                config.KeyAllowPy36,
	"skip-string-normalization": config.KeySkipStringNormalization,
	"fast":                      config.KeyFastUnsafe,
	"only-if-project-opts-in":   config.KeyOnlyIfProjectOptsIn,
	"timeout":                   config.KeyTimeout,
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:   "blacken [flags] [files...]",
		Short: "Format Python buffers with black, preserving editor state",
		Long: `blacken runs the black formatter over Python files and rewrites them
only when black changed something.

With no files, source is read from stdin and written to stdout.`,
		Example: `  blacken app.py lib/util.py     Format files in place
  blacken --check app.py         Exit 1 if app.py would be reformatted
  blacken --on-save app.py       Save the way an editor does, honouring
                                 only-if-project-opts-in
  cat app.py | blacken -         Filter stdin to stdout`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, &opts, args, stdin, stdout, stderr)
		},
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "settings file (default: user config dir blacken.toml)")
	f.BoolVar(&opts.noConfig, "no-config", false, "ignore the settings file")
	f.BoolVar(&opts.check, "check", false, "don't write files; exit 1 if any would be reformatted")
	f.BoolVar(&opts.onSave, "on-save", false, "format through the pre-save hook, as an editor save would")
	f.StringVar(&opts.stdinFilename, "stdin-filename", "", "file name used for stdin input (decides .pyi handling and project lookup)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.IntVarP(&opts.jobs, "jobs", "j", 4, "files formatted concurrently")
	f.BoolVarP(&opts.quiet, "quiet", "q", false, "only report errors")

	f.StringVar(&opts.executable, "executable", "", "black executable")
	f.StringVarP(&opts.lineLength, "line-length", "l", "", `line length in columns, or "fill"`)
	f.StringVarP(&opts.targetVersion, "target-version", "t", "", "Python version to target, e.g. py311")
	f.BoolVar(&opts.allowPy36, "allow-py36", false, "target py36")
	f.BoolVarP(&opts.skipStringNormalization, "skip-string-normalization", "S", false, "don't normalize string quotes")
	f.BoolVar(&opts.fastUnsafe, "fast", false, "skip black's safety checks")
	f.BoolVar(&opts.onlyIfProjectOptsIn, "only-if-project-opts-in", false, "with --on-save, format only projects whose pyproject.toml has [tool.black]")
	f.DurationVar(&opts.timeout, "timeout", 0, "kill black after this long (0 disables)")

	_ = f.MarkDeprecated("allow-py36", "use --target-version py36")
	cmd.MarkFlagsMutuallyExclusive("check", "on-save")
	cmd.MarkFlagsMutuallyExclusive("config", "no-config")

	return cmd
}

func execute(cmd *cobra.Command, opts *cliOptions, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if opts.logLevel != "" && !isLogLevel(opts.logLevel) {
		return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.logLevel)
	}
	if opts.jobs < 1 {
		opts.jobs = 1
	}

	out := &lockedWriter{w: stderr}
	application, err := app.New(app.Options{
		ConfigPath:   opts.configPath,
		NoConfig:     opts.noConfig,
		Overrides:    overrides(cmd, opts),
		LogLevel:     opts.logLevel,
		LogOutput:    out,
		FormatOnSave: opts.onSave,
		Reporter:     reporter(out),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer application.Shutdown()

	ctx := cmd.Context()
	if len(args) == 0 || (len(args) == 1 && args[0] == format.StdinMarker) {
		return formatStdin(ctx, application, opts, stdin, stdout, out)
	}
	return formatFiles(ctx, application, opts, args, out)
}

// overrides collects the setting flags given on the command line.
func overrides(cmd *cobra.Command, opts *cliOptions) map[string]any {
	values := map[string]any{
		"executable":                opts.executable,
		"line-length":               opts.lineLength,
		"target-version":            opts.targetVersion,
		"allow-py36":                opts.allowPy36,
		"skip-string-normalization": opts.skipStringNormalization,
		"fast":                      opts.fastUnsafe,
		"only-if-project-opts-in":   opts.onlyIfProjectOptsIn,
		"timeout":                   opts.timeout.String(),
	}

	m := make(map[string]any)
	for flag, key := range settingFlags {
		if cmd.Flags().Changed(flag) {
			m[key] = values[flag]
		}
	}
	return m
}

func formatStdin(ctx context.Context, a *app.Application, opts *cliOptions, stdin io.Reader, stdout io.Writer, stderr *lockedWriter) error {
	dst := stdout
	if opts.check {
		dst = io.Discard
	}

	outcome, err := a.FormatStream(ctx, stdin, dst, opts.stdinFilename)
	if err != nil {
		stderr.printf("error: cannot format %s: %v\n", stdinName(opts), err)
		return errFailed
	}
	if opts.check && outcome == format.OutcomeApplied {
		if !opts.quiet {
			stderr.printf("would reformat %s\n", stdinName(opts))
		}
		return errFailed
	}
	return nil
}

func stdinName(opts *cliOptions) string {
	if opts.stdinFilename != "" {
		return opts.stdinFilename
	}
	return "-"
}

func formatFiles(ctx context.Context, a *app.Application, opts *cliOptions, paths []string, stderr *lockedWriter) error {
	mode := app.ModeWrite
	switch {
	case opts.check:
		mode = app.ModeCheck
	case opts.onSave:
		mode = app.ModeOnSave
	}

	results := make([]app.FileResult, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			results[i] = a.FormatFile(gctx, path, mode)
			return nil
		})
	}
	_ = g.Wait()

	var reformatted, unchanged, skipped, failed int
	for _, res := range results {
		switch {
		case errors.Is(res.Err, app.ErrWouldReformat):
			reformatted++
			if !opts.quiet {
				stderr.printf("would reformat %s\n", res.Path)
			}
		case res.Err != nil:
			failed++
			stderr.printf("error: %v\n", res.Err)
		case res.Outcome == format.OutcomeApplied:
			reformatted++
			if !opts.quiet {
				stderr.printf("reformatted %s\n", res.Path)
			}
		case res.Outcome == format.OutcomeSkipped:
			skipped++
		default:
			unchanged++
		}
	}

	if !opts.quiet {
		stderr.printf("%s\n", summary(opts.check, reformatted, unchanged, skipped, failed))
	}
	if failed > 0 || (opts.check && reformatted > 0) {
		return errFailed
	}
	return nil
}

func summary(check bool, reformatted, unchanged, skipped, failed int) string {
	var parts []string
	verb := "reformatted"
	if check {
		verb = "would be reformatted"
	}
	if reformatted > 0 {
		parts = append(parts, fmt.Sprintf("%s %s", plural(reformatted), verb))
	}
	if unchanged > 0 {
		parts = append(parts, fmt.Sprintf("%s left unchanged", plural(unchanged)))
	}
	if skipped > 0 {
		parts = append(parts, fmt.Sprintf("%s skipped", plural(skipped)))
	}
	if failed > 0 {
		parts = append(parts, fmt.Sprintf("%s failed", plural(failed)))
	}
	if len(parts) == 0 {
		return "No files formatted."
	}
	return strings.Join(parts, ", ") + "."
}

func plural(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}

func isLogLevel(s string) bool {
	switch s {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}

// reporter prints the formatter's own diagnostic when there is one, and the
// one-line summary otherwise.
func reporter(w *lockedWriter) format.Reporter {
	return format.ReporterFunc(func(summary, diagnostic string) {
		if diagnostic = strings.TrimRight(diagnostic, "\n"); diagnostic != "" {
			w.printf("%s\n", diagnostic)
			return
		}
		w.printf("%s\n", summary)
	})
}

// lockedWriter serializes writes from concurrent formatter runs.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func (l *lockedWriter) printf(msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, msg, args...)
}
