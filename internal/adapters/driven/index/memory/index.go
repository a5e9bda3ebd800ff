// Package memory provides an in-memory search index backend.
// It backs dry runs and tests; nothing is persisted.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/custodia-labs/carriersync/internal/core/domain"
	"github.com/custodia-labs/carriersync/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.IndexBackend = (*Index)(nil)

// DefaultPageSize is the number of file ids returned per ListFiles page.
const DefaultPageSize = 20

// File is an uploaded file held by the index.
type File struct {
	ID        string
	Name      string
	MediaType string
	Content   []byte
}

// Index is an in-memory implementation of driven.IndexBackend.
type Index struct {
	mu       sync.RWMutex
	seq      int
	files    map[string]File
	attached map[string]bool
	pageSize int
}

// NewIndex creates an empty in-memory index.
func NewIndex() *Index {
	return &Index{
		files:    make(map[string]File),
		attached: make(map[string]bool),
		pageSize: DefaultPageSize,
	}
}

// SetPageSize changes the ListFiles page size.
func (x *Index) SetPageSize(n int) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if n > 0 {
		x.pageSize = n
	}
}

// CreateFile stores content and returns a sequential file id.
func (x *Index) CreateFile(_ context.Context, name, mediaType string, content []byte) (string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.seq++
	id := fmt.Sprintf("file-%06d", x.seq)
	x.files[id] = File{
		ID:        id,
		Name:      name,
		MediaType: mediaType,
		Content:   append([]byte(nil), content...),
	}
	return id, nil
}

// AttachFile adds an uploaded file to the index.
func (x *Index) AttachFile(_ context.Context, fileID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, ok := x.files[fileID]; !ok {
		return fmt.Errorf("attach %s: %w", fileID, domain.ErrNotFound)
	}
	x.attached[fileID] = true
	return nil
}

// ListFiles returns attached file ids in id order, after the given id.
func (x *Index) ListFiles(_ context.Context, after string) (*domain.IndexFilePage, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	ids := make([]string, 0, len(x.attached))
	for id := range x.attached {
		if id > after {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	page := &domain.IndexFilePage{FileIDs: ids}
	if len(ids) > x.pageSize {
		page.FileIDs = ids[:x.pageSize]
		page.HasMore = true
	}
	if n := len(page.FileIDs); n > 0 {
		page.LastID = page.FileIDs[n-1]
	}
	return page, nil
}

// DetachFile removes a file from the index.
func (x *Index) DetachFile(_ context.Context, fileID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if !x.attached[fileID] {
		return fmt.Errorf("detach %s: %w", fileID, domain.ErrNotFound)
	}
	delete(x.attached, fileID)
	return nil
}

// DeleteFile deletes a file, detaching it if needed.
func (x *Index) DeleteFile(_ context.Context, fileID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, ok := x.files[fileID]; !ok {
		return fmt.Errorf("delete %s: %w", fileID, domain.ErrNotFound)
	}
	delete(x.files, fileID)
	delete(x.attached, fileID)
	return nil
}

// Attached returns the attached files ordered by id.
func (x *Index) Attached() []File {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([]File, 0, len(x.attached))
	for id := range x.attached {
		out = append(out, x.files[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FileCount returns the number of stored files, attached or not.
func (x *Index) FileCount() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.files)
}
