package common

import "slices"

// Extraction methods recorded on entities and relationships.
const (
	ExtractionMethodLLM    = "llm_extracted"
	ExtractionMethodManual = "manual"
)

// DefaultConfidence is used whenever a model reports no usable confidence.
const DefaultConfidence = 0.5

// EntityTypes is the closed set of node types, in prompt order.
var EntityTypes = []string{
	"HazardType",
	"Community",
	"Agency",
	"Location",
	"Resource",
	"Action",
}

// RelationshipTypes is the closed set of edge types, in prompt order.
var RelationshipTypes = []string{
	"occursIn",
	"hasHazardType",
	"serves",
	"responsibleFor",
	"locatedIn",
	"targets",
	"owns",
	"implementedBy",
	"dependsOn",
	"partOf",
}

// EntityTypeDescriptions are shown to the model next to each entity type.
var EntityTypeDescriptions = map[string]string{
	"HazardType": "Natural or human-caused hazards (e.g., bushfire, flood, cyclone, drought, earthquake)",
	"Community":  "Towns, suburbs, neighborhoods, demographic groups, vulnerable populations",
	"Agency":     "Organizations, government bodies, emergency services, NGOs, community groups",
	"Location":   "Specific places, infrastructure sites, evacuation zones, landmarks",
	"Resource":   "Physical resources, shelters, equipment, supplies, funding, personnel",
	"Action":     "Mitigation measures, response actions, recovery programs, preparedness activities",
}

// RelationshipTypeDescriptions are the short glosses given to the model.
var RelationshipTypeDescriptions = map[string]string{
	"occursIn":       "A hazard or event occurs in a location/community",
	"hasHazardType":  "An entity is associated with a hazard type",
	"serves":         "An agency/resource serves a community",
	"responsibleFor": "An agency is responsible for an action or area",
	"locatedIn":      "An entity is physically located in a place",
	"targets":        "An action targets a community, hazard, or resource",
	"owns":           "An agency owns or manages a resource",
	"implementedBy":  "An action is implemented by an agency",
	"dependsOn":      "An entity depends on another entity",
	"partOf":         "An entity is part of a larger entity",
}

func IsEntityType(t string) bool {
	return slices.Contains(EntityTypes, t)
}

func IsRelationshipType(t string) bool {
	return slices.Contains(RelationshipTypes, t)
}
