package project

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/blacken/internal/logging"
)

const (
	// ManifestName is the project manifest searched for in ancestor directories.
	ManifestName = "pyproject.toml"

	// SectionHeader is the line that marks a project as using the formatter.
	SectionHeader = "[tool.black]"

	maxLineSize = 1 << 20
)

// ErrManifestNotFound is returned when no manifest exists up the ancestor chain.
var ErrManifestNotFound = errors.New("no " + ManifestName + " found")

// ManifestParseError reports a manifest that exists but could not be read.
type ManifestParseError struct {
	Path string
	Err  error
}

func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("read manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestParseError) Unwrap() error { return e.Err }

// FindManifest returns the path of the nearest manifest at or above dir.
func FindManifest(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for d := abs; ; {
		candidate := filepath.Join(d, ManifestName)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			return candidate, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return "", &ManifestParseError{Path: candidate, Err: err}
		}

		parent := filepath.Dir(d)
		if parent == d {
			return "", ErrManifestNotFound
		}
		d = parent
	}
}

// HasFormatterSection reports whether the manifest at path contains
// SectionHeader on a line of its own. Trailing carriage returns are ignored;
// any other surrounding text, including whitespace, is not.
func HasFormatterSection(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, &ManifestParseError{Path: path, Err: err}
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	for scanner.Scan() {
		if strings.TrimSuffix(scanner.Text(), "\r") == SectionHeader {
			return true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return false, &ManifestParseError{Path: path, Err: err}
	}
	return false, nil
}

// Gate answers the format-on-save opt-in question. It keeps no cache; every
// call walks the directory tree again.
type Gate struct {
	logger *logging.Logger
}

// NewGate creates a Gate. A nil logger discards output.
func NewGate(logger *logging.Logger) *Gate {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Gate{logger: logger.WithComponent("project")}
}

// ShouldAutoFormat reports whether a buffer in dir may be formatted on save.
// With onlyIfOptIn false it is always true. Otherwise the nearest manifest
// must exist and contain SectionHeader; any failure reads as false.
func (g *Gate) ShouldAutoFormat(dir string, onlyIfOptIn bool) bool {
	if !onlyIfOptIn {
		return true
	}

	manifest, err := FindManifest(dir)
	if err != nil {
		g.logger.Debug("format on save skipped for %s: %v", dir, err)
		return false
	}

	ok, err := HasFormatterSection(manifest)
	if err != nil {
		g.logger.Debug("format on save skipped: %v", err)
		return false
	}
	if !ok {
		g.logger.Debug("format on save skipped: %s has no %s section", manifest, SectionHeader)
	}
	return ok
}

// ShouldAutoFormat is Gate.ShouldAutoFormat without logging.
func ShouldAutoFormat(dir string, onlyIfOptIn bool) bool {
	return NewGate(nil).ShouldAutoFormat(dir, onlyIfOptIn)
}
