package graph

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
)

func TestParseEntities_DropsInvalidItemsOnly(t *testing.T) {
	answer := `Here you go:
{"entities": [
  {"entity_type": "Agency", "name": "  SES ", "confidence": 0.9, "evidence_text": "The SES serves", "location_text": null},
  {"entity_type": "Person", "name": "John", "confidence": 0.8},
  {"entity_type": "Community", "name": 42},
  {"entity_type": "Community", "name": "   "},
  {"entity_type": "Community", "name": "Riverside", "confidence": "0.8", "attributes": {"population": 1200}},
  {"entity_type": "HazardType", "name": "Flood", "confidence": 7, "entity_subtype": "riverine", "attributes": "none"}
]}`

	got, err := parseEntities(answer)
	if err != nil {
		t.Fatalf("parseEntities() error = %v", err)
	}
	want := []common.EntityCandidate{
		{Type: "Agency", Name: "SES", Attributes: map[string]any{}, Confidence: 0.9, EvidenceText: "The SES serves"},
		{Type: "Community", Name: "Riverside", Attributes: map[string]any{"population": float64(1200)}, Confidence: 0.8},
		{Type: "HazardType", Subtype: "riverine", Name: "Flood", Attributes: map[string]any{}, Confidence: 0.5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parseEntities() =\n%#v\nwant\n%#v", got, want)
	}
}

func TestParseEntities_Unparseable(t *testing.T) {
	if _, err := parseEntities("I could not find anything."); err == nil {
		t.Fatalf("expected error for answer without JSON")
	}
}

func TestParseEntities_BareArray(t *testing.T) {
	got, err := parseEntities(`[{"entity_type": "Location", "name": "Town Hall"}]`)
	if err != nil {
		t.Fatalf("parseEntities() error = %v", err)
	}
	if len(got) != 1 || got[0].Name != "Town Hall" || got[0].Confidence != common.DefaultConfidence {
		t.Fatalf("parseEntities() = %#v", got)
	}
}

func TestParseEntities_MalformedBareArray(t *testing.T) {
	answer := `[{"entity_type": "Agency", "name": "SES", "confidence": 0.9},
{"entity_type": "Location", "name": 'Riverside'},]`
	got, err := parseEntities(answer)
	if err != nil {
		t.Fatalf("parseEntities() error = %v", err)
	}
	var names []string
	for _, e := range got {
		names = append(names, e.Name)
	}
	if !reflect.DeepEqual(names, []string{"SES", "Riverside"}) {
		t.Fatalf("parseEntities() names = %v, want [SES Riverside]", names)
	}
}

func TestParseRelationships(t *testing.T) {
	answer := "```json\n" + `{"relationships": [
  {"source_name": "SES", "source_type": "Agency", "target_name": "Riverside", "target_type": "Community", "relationship_type": "serves", "confidence": 0.85, "evidence_text": "serves Riverside"},
  {"source_name": "SES", "target_name": "Riverside", "relationship_type": "likes"},
  {"source_name": "", "target_name": "Riverside", "relationship_type": "serves"},
  {"source_name": "Flood", "target_name": "Riverside", "relationship_type": "occursIn", "confidence": null}
]}` + "\n```"

	got, err := parseRelationships(answer)
	if err != nil {
		t.Fatalf("parseRelationships() error = %v", err)
	}
	want := []common.RelationshipCandidate{
		{SourceName: "SES", SourceType: "Agency", TargetName: "Riverside", TargetType: "Community", Type: "serves", Attributes: map[string]any{}, Confidence: 0.85, EvidenceText: "serves Riverside"},
		{SourceName: "Flood", TargetName: "Riverside", Type: "occursIn", Attributes: map[string]any{}, Confidence: 0.5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parseRelationships() =\n%#v\nwant\n%#v", got, want)
	}
}

func TestParseConfidence(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{raw: ``, want: 0.5},
		{raw: `null`, want: 0.5},
		{raw: `0`, want: 0},
		{raw: `1`, want: 1},
		{raw: `0.42`, want: 0.42},
		{raw: `"0.7"`, want: 0.7},
		{raw: `" 0.3 "`, want: 0.3},
		{raw: `"high"`, want: 0.5},
		{raw: `-0.1`, want: 0.5},
		{raw: `1.5`, want: 0.5},
		{raw: `true`, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := parseConfidence(json.RawMessage(tt.raw)); got != tt.want {
				t.Fatalf("parseConfidence(%s) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestDedupeEntities(t *testing.T) {
	in := []common.EntityCandidate{
		{Type: "Agency", Name: "SES", Confidence: 0.6, EvidenceText: "first"},
		{Type: "Community", Name: "Riverside", Confidence: 0.7},
		{Type: "Agency", Name: " ses", Confidence: 0.9, EvidenceText: "second"},
		{Type: "Location", Name: "SES", Confidence: 0.4},
		{Type: "Agency", Name: "SES", Confidence: 0.8, EvidenceText: "third"},
	}
	got := dedupeEntities(in)
	want := []common.EntityCandidate{
		{Type: "Agency", Name: " ses", Confidence: 0.9, EvidenceText: "second"},
		{Type: "Community", Name: "Riverside", Confidence: 0.7},
		{Type: "Location", Name: "SES", Confidence: 0.4},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("dedupeEntities() =\n%#v\nwant\n%#v", got, want)
	}
}

func TestMetadataSection(t *testing.T) {
	got := metadataSection(common.DocumentMetadata{Title: "Flood plan", Tags: []string{"flood", "river"}})
	want := "Document title: Flood plan\nTags: flood, river"
	if got != want {
		t.Fatalf("metadataSection() = %q, want %q", got, want)
	}
	if got := metadataSection(common.DocumentMetadata{}); got != "No metadata available." {
		t.Fatalf("metadataSection(empty) = %q", got)
	}
}
