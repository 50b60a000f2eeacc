package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dshills/blacken/internal/engine/buffer"
)

// DocumentManager manages open buffers keyed by absolute path.
type DocumentManager struct {
	mu        sync.RWMutex
	documents map[string]*buffer.Buffer
	order     []string
	opts      []buffer.Option
}

// NewDocumentManager creates a document manager. opts are applied to every
// buffer it opens.
func NewDocumentManager(opts ...buffer.Option) *DocumentManager {
	return &DocumentManager{
		documents: make(map[string]*buffer.Buffer),
		order:     make([]string, 0),
		opts:      opts,
	}
}

// Open opens a document from a file.
// Returns existing document if already open.
func (dm *DocumentManager) Open(path string) (*buffer.Buffer, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()

	if doc, exists := dm.documents[absPath]; exists {
		return doc, nil
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", absPath, ErrNotRegularFile)
	}

	doc, err := buffer.Open(absPath, dm.opts...)
	if err != nil {
		return nil, err
	}
	dm.documents[absPath] = doc
	dm.order = append(dm.order, absPath)

	return doc, nil
}

// Close closes a document by path.
func (dm *DocumentManager) Close(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	dm.mu.Lock()
	defer dm.mu.Unlock()

	if _, exists := dm.documents[absPath]; !exists {
		return ErrDocumentNotFound
	}
	delete(dm.documents, absPath)

	for i, p := range dm.order {
		if p == absPath {
			dm.order = append(dm.order[:i], dm.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns a document by path.
func (dm *DocumentManager) Get(path string) (*buffer.Buffer, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, false
	}

	dm.mu.RLock()
	defer dm.mu.RUnlock()
	doc, exists := dm.documents[absPath]
	return doc, exists
}

// All returns all open documents in open order.
func (dm *DocumentManager) All() []*buffer.Buffer {
	dm.mu.RLock()
	defer dm.mu.RUnlock()

	docs := make([]*buffer.Buffer, 0, len(dm.documents))
	for _, path := range dm.order {
		if doc, exists := dm.documents[path]; exists {
			docs = append(docs, doc)
		}
	}
	return docs
}

// Count returns the number of open documents.
func (dm *DocumentManager) Count() int {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return len(dm.documents)
}
