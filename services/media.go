package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
)

// MediaStore holds uploaded post images, addressed by blob name.
type MediaStore interface {
	Upload(ctx context.Context, blobName string, contentType string, content io.Reader) error
	Delete(ctx context.Context, blobName string) error
	URL(blobName string) string
}

type memoryBlob struct {
	contentType string
	content     []byte
}

// MemoryMediaStore keeps blobs in process for local runs and tests.
type MemoryMediaStore struct {
	mu      sync.RWMutex
	blobs   map[string]memoryBlob
	baseURL string
}

func NewMemoryMediaStore(baseURL string) *MemoryMediaStore {
	return &MemoryMediaStore{
		blobs:   make(map[string]memoryBlob),
		baseURL: baseURL,
	}
}

func (ms *MemoryMediaStore) Upload(ctx context.Context, blobName string, contentType string, content io.Reader) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, content); err != nil {
		return fmt.Errorf("read upload %v: %w", blobName, err)
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.blobs[blobName] = memoryBlob{contentType: contentType, content: buf.Bytes()}
	return nil
}

func (ms *MemoryMediaStore) Delete(ctx context.Context, blobName string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.blobs, blobName)
	return nil
}

func (ms *MemoryMediaStore) URL(blobName string) string {
	return ms.baseURL + blobName
}

// Get returns a stored blob; the bool is false when missing.
func (ms *MemoryMediaStore) Get(blobName string) (contentType string, content []byte, ok bool) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	blob, ok := ms.blobs[blobName]
	return blob.contentType, blob.content, ok
}
