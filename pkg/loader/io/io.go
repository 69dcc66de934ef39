package io

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/loader"
)

// IOFileLoader reads document bodies from a directory on the local
// filesystem. Keys are relative paths below the root.
type IOFileLoader struct {
	root  string
	cache *loader.Cache
}

func NewIOFileLoader(root string) *IOFileLoader {
	return &IOFileLoader{
		root:  root,
		cache: loader.NewCache(),
	}
}

func (l *IOFileLoader) GetFileText(ctx context.Context, file loader.SourceFile) ([]byte, error) {
	p, err := l.resolve(file.Key)
	if err != nil {
		return nil, err
	}
	return l.cache.Load(loader.CacheKey(file), func() ([]byte, error) {
		return os.ReadFile(p)
	})
}

func (l *IOFileLoader) resolve(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	p := filepath.Join(l.root, clean)
	if !strings.HasPrefix(p, filepath.Clean(l.root)+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid file key %q", key)
	}
	return p, nil
}
