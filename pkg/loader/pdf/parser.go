package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const pdftotextTimeout = 30 * time.Second

var reBlankRuns = regexp.MustCompile(`\n{3,}`)

// parsePDF runs poppler's pdftotext on the input. Blank line runs are
// collapsed so paragraphs stay separated by exactly one empty line, which is
// what the chunker splits on.
func parsePDF(ctx context.Context, input []byte) ([]byte, error) {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return nil, fmt.Errorf("pdftotext not found in PATH: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "pdfextract-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(pdfPath, input, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write temp PDF: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, pdftotextTimeout)
	defer cancel()

	cmd := exec.CommandContext(
		ctx,
		"pdftotext",
		"-enc", "UTF-8",
		"-eol", "unix",
		"-nopgbrk",
		"-q",
		pdfPath,
		"-",
	)
	cmd.Env = append(os.Environ(), "LANG=C.UTF-8", "LC_ALL=C.UTF-8")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("pdftotext timed out after %s", pdftotextTimeout)
	}
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w: %s", err, bytes.TrimSpace(stderr.Bytes()))
	}

	return normalizeText(out), nil
}

func normalizeText(out []byte) []byte {
	text := strings.ReplaceAll(string(out), "\r\n", "\n")
	text = strings.TrimSpace(text)
	text = reBlankRuns.ReplaceAllString(text, "\n\n")
	if text == "" {
		return []byte{}
	}
	return []byte(text + "\n")
}
