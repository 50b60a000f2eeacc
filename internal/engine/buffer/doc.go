// Package buffer provides the in-memory document the formatter works on:
// the content of one file plus the views that currently show it.
//
// A Buffer satisfies format.Host and hook.Document, so it can be formatted
// directly and handed to pre-save hooks:
//
//	buf, err := buffer.Open("app.py", buffer.WithHooks(hooks))
//	view := buf.NewView()
//	view.SetCursorOffset(120)
//
//	outcome, err := formatter.FormatNow(ctx, buf, true)
//	err = buf.Save(ctx) // runs pre-save hooks, then writes the file
//
// View offsets are byte offsets and are clamped to the content length
// whenever the content is replaced.
//
// All Buffer and View methods are safe for concurrent use.
package buffer
