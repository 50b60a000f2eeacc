// Package project decides whether format-on-save applies to a directory.
//
// A project opts in by carrying a pyproject.toml, in the directory itself or
// any ancestor, with a line that is exactly the section header
// "[tool.black]". The nearest manifest wins; the search does not continue
// past it. Unreadable manifests count as "not opted in" and are only
// logged.
package project
