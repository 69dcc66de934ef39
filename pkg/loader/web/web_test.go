package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/loader"
)

const page = `<!DOCTYPE html>
<html><head><title>Flood plan</title></head>
<body>
<nav><a href="/">Home</a> <a href="/about">About</a></nav>
<article>
<h1>Riverside flood plan</h1>
<p>The SES serves the Riverside community during floods. Volunteers fill sandbags at the council depot
and coordinate evacuation routes with local police when the river rises above the minor flood level.</p>
<p>Residents should prepare an emergency kit, listen to local radio for warnings, and move valuables
to higher ground well before the river peaks. The evacuation centre opens at the community hall.</p>
</article>
<footer>Copyright</footer>
</body></html>`

type bytesLoader string

func (b bytesLoader) GetFileText(ctx context.Context, file loader.SourceFile) ([]byte, error) {
	return []byte(b), nil
}

func TestHTMLLoader(t *testing.T) {
	l := NewHTMLLoader(bytesLoader(page))

	got, err := l.GetFileText(context.Background(), loader.SourceFile{DocumentID: 3, Key: "plans/flood.html"})
	if err != nil {
		t.Fatalf("GetFileText() error = %v", err)
	}
	text := string(got)
	if !strings.Contains(text, "The SES serves the Riverside community during floods.") {
		t.Errorf("article text missing, got %q", text)
	}
	if strings.Contains(text, "<p>") {
		t.Errorf("markup must be stripped, got %q", text)
	}
}

func TestURLLoader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/plan":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte(page))
		case "/notes.txt":
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("plain notes"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewURLLoader(srv.Client())
	ctx := context.Background()

	got, err := l.GetFileText(ctx, loader.SourceFile{Key: srv.URL + "/plan"})
	if err != nil || !strings.Contains(string(got), "Riverside community") {
		t.Errorf("html page = %q, %v", got, err)
	}
	got, err = l.GetFileText(ctx, loader.SourceFile{Key: srv.URL + "/notes.txt"})
	if err != nil || string(got) != "plain notes" {
		t.Errorf("plain page = %q, %v", got, err)
	}
	if _, err := l.GetFileText(ctx, loader.SourceFile{Key: srv.URL + "/missing"}); err == nil {
		t.Errorf("expected error for 404")
	}
}
