// Package loader turns stored document bodies into plain text for the
// extraction pipeline.
package loader

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

type FileKind string

const (
	FileKindText FileKind = "text"
	FileKindHTML FileKind = "html"
	FileKindDocx FileKind = "docx"
	FileKindPDF  FileKind = "pdf"
	FileKindURL  FileKind = "url"
)

const docxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// SourceFile identifies the body of a document in a backing store.
type SourceFile struct {
	DocumentID  int64
	Key         string
	ContentType string
}

// Kind derives the text conversion from the content type, falling back to
// the key's extension. Keys that are http(s) URLs are always FileKindURL.
func (f SourceFile) Kind() FileKind {
	if key := strings.ToLower(f.Key); strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://") {
		return FileKindURL
	}

	ct := strings.ToLower(f.ContentType)
	switch {
	case strings.Contains(ct, "html"):
		return FileKindHTML
	case strings.HasPrefix(ct, docxContentType):
		return FileKindDocx
	case strings.HasPrefix(ct, "application/pdf"):
		return FileKindPDF
	}

	switch strings.ToLower(path.Ext(f.Key)) {
	case ".html", ".htm":
		return FileKindHTML
	case ".docx":
		return FileKindDocx
	case ".pdf":
		return FileKindPDF
	}
	return FileKindText
}

// FileLoader returns the content of a file. Raw loaders return stored bytes,
// converting loaders return plain text.
type FileLoader interface {
	GetFileText(ctx context.Context, file SourceFile) ([]byte, error)
}

func CacheKey(file SourceFile) string {
	return fmt.Sprintf("%d:%s", file.DocumentID, file.Key)
}

// Cache memoizes loader results and collapses concurrent loads of the same
// key into one call. Failed loads are not cached.
type Cache struct {
	mu      sync.RWMutex
	entries map[string][]byte
	group   singleflight.Group
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string][]byte)}
}

func (c *Cache) get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.entries[key]
	return b, ok
}

func (c *Cache) Load(key string, fn func() ([]byte, error)) ([]byte, error) {
	if b, ok := c.get(key); ok {
		return b, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		if b, ok := c.get(key); ok {
			return b, nil
		}
		b, err := fn()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = b
		c.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// KindLoader routes a file to the converter registered for its kind. Files
// without a converter are returned as stored.
type KindLoader struct {
	raw    FileLoader
	byKind map[FileKind]FileLoader
}

func NewKindLoader(raw FileLoader, byKind map[FileKind]FileLoader) *KindLoader {
	return &KindLoader{raw: raw, byKind: byKind}
}

func (l *KindLoader) GetFileText(ctx context.Context, file SourceFile) ([]byte, error) {
	if conv, ok := l.byKind[file.Kind()]; ok && conv != nil {
		return conv.GetFileText(ctx, file)
	}
	return l.raw.GetFileText(ctx, file)
}
