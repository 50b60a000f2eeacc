// Package format runs the black code formatter over editor buffers.
//
// The package has three layers:
//
//   - BuildArgs turns a FormatConfig into the formatter's command line.
//     It is pure and always ends the arguments with "-" so the formatter
//     reads standard input and writes standard output.
//   - Pipeline runs one formatter process: it writes the input and drains
//     stdout and stderr concurrently, so large buffers cannot deadlock on
//     full pipes, and returns a Result once the process has exited.
//   - Apply and Formatter connect a Result to a Host buffer. Content is
//     only replaced when it actually changed, and every visible view keeps
//     its cursor and scroll offsets across the replacement.
//
// AutoFormat wires the Formatter into a pre-save hook so buffers are
// formatted on save, optionally only inside projects whose pyproject.toml
// opts in with a [tool.black] section.
//
// Options are never read from globals. Each operation asks its
// OptionsSource for a fresh snapshot.
package format
