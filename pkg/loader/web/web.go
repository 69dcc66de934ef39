package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/loader"

	"codeberg.org/readeck/go-readability/v2"
)

// HTMLLoader extracts the readable article text from HTML documents. The
// markup is read through the base loader.
type HTMLLoader struct {
	base  loader.FileLoader
	cache *loader.Cache
}

func NewHTMLLoader(base loader.FileLoader) *HTMLLoader {
	return &HTMLLoader{
		base:  base,
		cache: loader.NewCache(),
	}
}

func (l *HTMLLoader) GetFileText(ctx context.Context, file loader.SourceFile) ([]byte, error) {
	return l.cache.Load(loader.CacheKey(file), func() ([]byte, error) {
		raw, err := l.base.GetFileText(ctx, file)
		if err != nil {
			return nil, err
		}
		pageURL := &url.URL{Scheme: "document", Host: fmt.Sprint(file.DocumentID), Path: "/" + file.Key}
		return HTMLToText(bytes.NewReader(raw), pageURL)
	})
}

// HTMLToText renders the main content of an HTML page as plain text.
func HTMLToText(r io.Reader, pageURL *url.URL) ([]byte, error) {
	article, err := readability.FromReader(r, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	var builder strings.Builder
	if err := article.RenderText(&builder); err != nil {
		return nil, fmt.Errorf("failed to render article text: %w", err)
	}
	return []byte(strings.TrimSpace(builder.String())), nil
}

// URLLoader fetches a web page and returns its readable text. Non-HTML
// responses are returned as received. The file key is the URL.
type URLLoader struct {
	client *http.Client
	cache  *loader.Cache
}

func NewURLLoader(client *http.Client) *URLLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &URLLoader{
		client: client,
		cache:  loader.NewCache(),
	}
}

func (l *URLLoader) GetFileText(ctx context.Context, file loader.SourceFile) ([]byte, error) {
	return l.cache.Load(loader.CacheKey(file), func() ([]byte, error) {
		pageURL, err := url.Parse(file.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to parse url: %w", err)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL.String(), nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		resp, err := l.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch url: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("failed to fetch url: status %d", resp.StatusCode)
		}

		if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
			return HTMLToText(resp.Body, pageURL)
		}
		return io.ReadAll(resp.Body)
	})
}
