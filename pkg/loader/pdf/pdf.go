package pdf

import (
	"context"
	"fmt"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/loader"
)

// PDFLoader extracts the text layer of PDF files read through the base
// loader. Scanned PDFs without a text layer come back empty.
type PDFLoader struct {
	base    loader.FileLoader
	cache   *loader.Cache
	convert func(ctx context.Context, input []byte) ([]byte, error)
}

func NewPDFLoader(base loader.FileLoader) *PDFLoader {
	return &PDFLoader{
		base:    base,
		cache:   loader.NewCache(),
		convert: parsePDF,
	}
}

func (l *PDFLoader) GetFileText(ctx context.Context, file loader.SourceFile) ([]byte, error) {
	return l.cache.Load(loader.CacheKey(file), func() ([]byte, error) {
		content, err := l.base.GetFileText(ctx, file)
		if err != nil {
			return nil, err
		}
		text, err := l.convert(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", file.DocumentID, err)
		}
		return text, nil
	})
}
