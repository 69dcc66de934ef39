package doc

import (
	"context"
	"fmt"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/loader"
)

const docXMLMax = 50 << 20

// DocxLoader extracts the text of Word documents read through the base
// loader.
type DocxLoader struct {
	base  loader.FileLoader
	cache *loader.Cache
}

func NewDocxLoader(base loader.FileLoader) *DocxLoader {
	return &DocxLoader{
		base:  base,
		cache: loader.NewCache(),
	}
}

func (l *DocxLoader) GetFileText(ctx context.Context, file loader.SourceFile) ([]byte, error) {
	return l.cache.Load(loader.CacheKey(file), func() ([]byte, error) {
		content, err := l.base.GetFileText(ctx, file)
		if err != nil {
			return nil, err
		}
		text, err := parseDocx(content)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", file.DocumentID, err)
		}
		return text, nil
	})
}
