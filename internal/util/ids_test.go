package util

import (
	"reflect"
	"strings"
	"testing"
)

func TestNewRunID(t *testing.T) {
	a := NewRunID()
	b := NewRunID()
	if len(a) != 12 {
		t.Fatalf("expected 12 chars, got %q", a)
	}
	if a == b {
		t.Fatalf("expected distinct ids, got %q twice", a)
	}
	if strings.Trim(a, runIDAlphabet) != "" {
		t.Fatalf("unexpected characters in %q", a)
	}
}

func TestDocumentLockKey(t *testing.T) {
	if got := DocumentLockKey(42); got != "kg_extract:42" {
		t.Fatalf("DocumentLockKey() = %q", got)
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "Agency", want: []string{"Agency"}},
		{name: "spaces and blanks", input: " Agency, ,Community ", want: []string{"Agency", "Community"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SplitList(tt.input); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("SplitList() = %v, want %v", got, tt.want)
			}
		})
	}
}
