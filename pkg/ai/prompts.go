package ai

// JSONSystemPrompt keeps structured calls on a single JSON document. Some
// providers ignore the requested response format.
const JSONSystemPrompt = `Answer with exactly one JSON document that follows the requested structure. Do not add explanations, comments or markdown fences.`

// EntityExtractionPrompt is filled with: entity type list, metadata section,
// chunk text, comma separated entity types.
const EntityExtractionPrompt = `You are a knowledge graph entity extractor for a community disaster resilience system.

Extract all relevant entities from the text below. Each entity must be one of these types:

%s

## Document metadata
%s

## Text to extract from
%s

## Output format
Respond ONLY with a valid JSON object:

{
  "entities": [
    {
      "entity_type": "HazardType",
      "name": "Bushfire",
      "entity_subtype": "wildfire",
      "attributes": {"severity": "high", "season": "summer"},
      "confidence": 0.9,
      "evidence_text": "The bushfire season typically peaks in summer...",
      "location_text": null
    }
  ]
}

Rules:
- entity_type MUST be one of: %s
- confidence is 0.0 to 1.0 (how certain you are this entity exists in the text)
- evidence_text is the phrase or sentence from the text supporting this entity
- location_text is a place name if the entity has a geographic reference
- Do NOT invent entities not supported by the text
- Include ALL entities you can find, even low-confidence ones (0.3+)
`

// RelationshipExtractionPrompt is filled with: entity list, relationship
// types, relationship glosses, chunk text, relationship types.
const RelationshipExtractionPrompt = `You are a knowledge graph relationship extractor for a community disaster resilience system.

Given the following entities already extracted from the text, identify relationships between them.

## Extracted entities
%s

## Relationship types to look for
%s

Relationship type meanings:
%s

## Text
%s

## Output format
Respond ONLY with a valid JSON object:

{
  "relationships": [
    {
      "source_name": "SES",
      "source_type": "Agency",
      "target_name": "Smithville",
      "target_type": "Community",
      "relationship_type": "serves",
      "attributes": {},
      "confidence": 0.85,
      "evidence_text": "The SES serves the Smithville community..."
    }
  ]
}

Rules:
- source_name and target_name MUST match entity names from the list above
- relationship_type MUST be one of: %s
- confidence is 0.0 to 1.0
- Only include relationships supported by the text
- evidence_text is the phrase from the text supporting this relationship
`

// NoMetadata is used when a document carries no metadata at all.
const NoMetadata = "No metadata available."

// MetadataPrompt is filled with: file name, document excerpt.
const MetadataPrompt = `You catalogue documents for a community disaster resilience knowledge base.

Describe the document below.

## File name
%s

## Document excerpt
%s

## Output format
Respond ONLY with a valid JSON object:

{
  "title": "Riverside Flood Emergency Sub-Plan",
  "hazard_type": "flood",
  "location": "Riverside",
  "tags": ["evacuation", "sandbagging"]
}

Rules:
- title is the document's own title if it states one, otherwise a short descriptive title
- hazard_type is the main hazard the document deals with in lower case, or "" if none
- location is the main place the document covers, or "" if none
- tags are at most 5 short lower case topics
`
