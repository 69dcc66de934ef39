package graph

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/ai"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
)

var errNoCandidates = errors.New("model answer contained no valid candidates")

// Response shapes handed to the model as JSON schema. Parsing does not use
// them directly: items are decoded one by one so a malformed item can be
// dropped without losing the rest of the answer.
type entityResponse struct {
	Entities []entityItem `json:"entities" jsonschema_description:"Entities identified in the text"`
}

type entityItem struct {
	EntityType    string         `json:"entity_type" jsonschema_description:"One of the provided entity types"`
	Name          string         `json:"name" jsonschema_description:"Name of the entity as written in the text"`
	EntitySubtype string         `json:"entity_subtype,omitempty" jsonschema_description:"Optional finer classification, e.g. wildfire"`
	Attributes    map[string]any `json:"attributes,omitempty" jsonschema_description:"Free-form properties stated in the text"`
	Confidence    float64        `json:"confidence" jsonschema_description:"0.0 to 1.0, how certain the entity exists in the text"`
	EvidenceText  string         `json:"evidence_text,omitempty" jsonschema_description:"Phrase or sentence supporting the entity"`
	LocationText  string         `json:"location_text,omitempty" jsonschema_description:"Place name if the entity has a geographic reference"`
}

type relationshipResponse struct {
	Relationships []relationshipItem `json:"relationships" jsonschema_description:"Relationships between the listed entities"`
}

type relationshipItem struct {
	SourceName       string         `json:"source_name" jsonschema_description:"Name of the source entity from the list"`
	SourceType       string         `json:"source_type" jsonschema_description:"Entity type of the source"`
	TargetName       string         `json:"target_name" jsonschema_description:"Name of the target entity from the list"`
	TargetType       string         `json:"target_type" jsonschema_description:"Entity type of the target"`
	RelationshipType string         `json:"relationship_type" jsonschema_description:"One of the provided relationship types"`
	Attributes       map[string]any `json:"attributes,omitempty"`
	Confidence       float64        `json:"confidence" jsonschema_description:"0.0 to 1.0"`
	EvidenceText     string         `json:"evidence_text,omitempty" jsonschema_description:"Phrase supporting the relationship"`
}

type rawEntity struct {
	EntityType    string          `json:"entity_type"`
	Name          string          `json:"name"`
	EntitySubtype *string         `json:"entity_subtype"`
	Attributes    json.RawMessage `json:"attributes"`
	Confidence    json.RawMessage `json:"confidence"`
	EvidenceText  *string         `json:"evidence_text"`
	LocationText  *string         `json:"location_text"`
}

type rawRelationship struct {
	SourceName       string          `json:"source_name"`
	SourceType       *string         `json:"source_type"`
	TargetName       string          `json:"target_name"`
	TargetType       *string         `json:"target_type"`
	RelationshipType string          `json:"relationship_type"`
	Attributes       json.RawMessage `json:"attributes"`
	Confidence       json.RawMessage `json:"confidence"`
	EvidenceText     *string         `json:"evidence_text"`
}

// rawItems decodes the list stored under key. A bare top-level array is
// accepted as well.
func rawItems(answer, key string) ([]json.RawMessage, error) {
	if strings.HasPrefix(strings.TrimSpace(answer), "[") {
		var items []json.RawMessage
		if err := ai.UnmarshalFlexible(answer, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var wrapper map[string]json.RawMessage
	if err := ai.UnmarshalFlexible(answer, &wrapper); err == nil {
		list, ok := wrapper[key]
		if !ok {
			return nil, nil
		}
		var items []json.RawMessage
		if err := json.Unmarshal(list, &items); err != nil {
			return nil, nil
		}
		return items, nil
	}

	var items []json.RawMessage
	if err := ai.UnmarshalFlexible(answer, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func parseEntities(answer string) ([]common.EntityCandidate, error) {
	items, err := rawItems(answer, "entities")
	if err != nil {
		return nil, err
	}

	entities := make([]common.EntityCandidate, 0, len(items))
	for _, item := range items {
		var raw rawEntity
		if err := json.Unmarshal(item, &raw); err != nil {
			continue
		}
		name := strings.TrimSpace(raw.Name)
		if name == "" || !common.IsEntityType(raw.EntityType) {
			continue
		}
		entities = append(entities, common.EntityCandidate{
			Type:         raw.EntityType,
			Subtype:      trimmed(raw.EntitySubtype),
			Name:         name,
			Attributes:   parseAttributes(raw.Attributes),
			Confidence:   parseConfidence(raw.Confidence),
			EvidenceText: trimmed(raw.EvidenceText),
			LocationText: trimmed(raw.LocationText),
		})
	}
	return entities, nil
}

func parseRelationships(answer string) ([]common.RelationshipCandidate, error) {
	items, err := rawItems(answer, "relationships")
	if err != nil {
		return nil, err
	}

	relationships := make([]common.RelationshipCandidate, 0, len(items))
	for _, item := range items {
		var raw rawRelationship
		if err := json.Unmarshal(item, &raw); err != nil {
			continue
		}
		source := strings.TrimSpace(raw.SourceName)
		target := strings.TrimSpace(raw.TargetName)
		if source == "" || target == "" || !common.IsRelationshipType(raw.RelationshipType) {
			continue
		}
		relationships = append(relationships, common.RelationshipCandidate{
			SourceName:   source,
			SourceType:   trimmed(raw.SourceType),
			TargetName:   target,
			TargetType:   trimmed(raw.TargetType),
			Type:         raw.RelationshipType,
			Attributes:   parseAttributes(raw.Attributes),
			Confidence:   parseConfidence(raw.Confidence),
			EvidenceText: trimmed(raw.EvidenceText),
		})
	}
	return relationships, nil
}

// parseConfidence accepts a number or a numeric string within [0,1]. Anything
// else, including a missing value, yields the default confidence.
func parseConfidence(raw json.RawMessage) float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return common.DefaultConfidence
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return common.ClampConfidence(f)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return common.ClampConfidence(f)
		}
	}
	return common.DefaultConfidence
}

func parseAttributes(raw json.RawMessage) map[string]any {
	attrs := map[string]any{}
	if len(raw) == 0 {
		return attrs
	}
	if err := json.Unmarshal(raw, &attrs); err != nil || attrs == nil {
		return map[string]any{}
	}
	return attrs
}

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// dedupeEntities collapses candidates sharing a lower-cased name and a type.
// The candidate with the highest confidence wins and takes the position of
// the first sighting.
func dedupeEntities(entities []common.EntityCandidate) []common.EntityCandidate {
	type key struct {
		name       string
		entityType string
	}

	index := make(map[key]int, len(entities))
	out := make([]common.EntityCandidate, 0, len(entities))
	for _, e := range entities {
		k := key{name: strings.ToLower(strings.TrimSpace(e.Name)), entityType: e.Type}
		if i, ok := index[k]; ok {
			if e.Confidence > out[i].Confidence {
				out[i] = e
			}
			continue
		}
		index[k] = len(out)
		out = append(out, e)
	}
	return out
}
