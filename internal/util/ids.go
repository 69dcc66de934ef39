package util

import (
	"strconv"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const runIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewRunID returns a short random id used to correlate the log lines of one
// extraction run.
func NewRunID() string {
	id, err := gonanoid.Generate(runIDAlphabet, 12)
	if err != nil {
		return "run"
	}
	return id
}

// DocumentLockKey is the lease key guarding extraction of a single document.
func DocumentLockKey(documentID int64) string {
	return "kg_extract:" + strconv.FormatInt(documentID, 10)
}

// SplitList splits a comma separated query value, trimming elements and
// dropping blanks.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
