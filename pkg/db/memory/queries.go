package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"

	pgdb "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/db/pgx"

	"github.com/jackc/pgx/v5/pgtype"
)

func (s *Store) liveEntities(keep func(pgdb.KgEntity) bool) []pgdb.KgEntity {
	var out []pgdb.KgEntity
	for _, e := range s.data.entities {
		if !e.IsDeleted && (keep == nil || keep(e)) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b pgdb.KgEntity) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (s *Store) liveRelationships(keep func(pgdb.KgRelationship) bool) []pgdb.KgRelationship {
	var out []pgdb.KgRelationship
	for _, r := range s.data.relationships {
		if !r.IsDeleted && (keep == nil || keep(r)) {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b pgdb.KgRelationship) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func byConfidenceThenName(a, b pgdb.KgEntity) int {
	if c := cmp.Compare(b.ConfidenceScore, a.ConfidenceScore); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Name, b.Name); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func (s *Store) GetEntity(ctx context.Context, id int64) (pgdb.KgEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data.entities[id]
	if !ok || e.IsDeleted {
		return pgdb.KgEntity{}, errNoRows
	}
	return e, nil
}

func (s *Store) GetEntitiesByIDs(ctx context.Context, ids []int64) ([]pgdb.KgEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveEntities(func(e pgdb.KgEntity) bool { return slices.Contains(ids, e.ID) }), nil
}

func (s *Store) GetEntityByCanonical(ctx context.Context, arg pgdb.GetEntityByCanonicalParams) (pgdb.KgEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := s.liveEntities(func(e pgdb.KgEntity) bool {
		return e.CanonicalName == arg.CanonicalName && e.EntityType == arg.EntityType
	})
	if len(found) == 0 {
		return pgdb.KgEntity{}, errNoRows
	}
	return found[0], nil
}

func (s *Store) GetEntityByCanonicalAnyType(ctx context.Context, canonicalName string) (pgdb.KgEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := s.liveEntities(func(e pgdb.KgEntity) bool { return e.CanonicalName == canonicalName })
	if len(found) == 0 {
		return pgdb.KgEntity{}, errNoRows
	}
	return found[0], nil
}

func (s *Store) InsertEntity(ctx context.Context, arg pgdb.InsertEntityParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.data.entities {
		if !e.IsDeleted && e.CanonicalName == arg.CanonicalName && e.EntityType == arg.EntityType {
			return 0, uniqueViolation("uq_kg_entities_canonical_type")
		}
	}
	ts := s.timestamp()
	id := s.id()
	s.data.entities[id] = pgdb.KgEntity{
		ID:               id,
		EntityType:       arg.EntityType,
		EntitySubtype:    arg.EntitySubtype,
		Name:             arg.Name,
		CanonicalName:    arg.CanonicalName,
		Attributes:       slices.Clone(arg.Attributes),
		LocationText:     arg.LocationText,
		ConfidenceScore:  arg.ConfidenceScore,
		ExtractionMethod: arg.ExtractionMethod,
		Embedding:        vectorOrNil(arg.Embedding),
		CreatedAt:        ts,
		UpdatedAt:        ts,
	}
	return id, nil
}

func (s *Store) MergeEntity(ctx context.Context, arg pgdb.MergeEntityParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data.entities[arg.ID]
	if !ok {
		return nil
	}
	e.ConfidenceScore = max(e.ConfidenceScore, arg.ConfidenceScore)
	e.Attributes = mergeJSON(e.Attributes, arg.Attributes)
	if !e.LocationText.Valid || e.LocationText.String == "" {
		e.LocationText = arg.LocationText
	}
	e.UpdatedAt = s.timestamp()
	s.data.entities[arg.ID] = e
	return nil
}

func (s *Store) UpdateEntity(ctx context.Context, arg pgdb.UpdateEntityParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data.entities[arg.ID]
	if !ok || e.IsDeleted {
		return 0, nil
	}
	for _, other := range s.data.entities {
		if other.ID != e.ID && !other.IsDeleted &&
			other.CanonicalName == arg.CanonicalName && other.EntityType == e.EntityType {
			return 0, uniqueViolation("uq_kg_entities_canonical_type")
		}
	}
	e.EntitySubtype = arg.EntitySubtype
	e.Name = arg.Name
	e.CanonicalName = arg.CanonicalName
	e.Attributes = slices.Clone(arg.Attributes)
	e.LocationText = arg.LocationText
	e.ConfidenceScore = arg.ConfidenceScore
	e.Embedding = vectorOrNil(arg.Embedding)
	e.UpdatedAt = s.timestamp()
	s.data.entities[arg.ID] = e
	return 1, nil
}

func (s *Store) SoftDeleteEntity(ctx context.Context, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data.entities[id]
	if !ok || e.IsDeleted {
		return 0, nil
	}
	e.IsDeleted = true
	e.UpdatedAt = s.timestamp()
	s.data.entities[id] = e
	return 1, nil
}

func (s *Store) filterEntities(entityType, search pgtype.Text) []pgdb.KgEntity {
	items := s.liveEntities(func(e pgdb.KgEntity) bool {
		if entityType.Valid && e.EntityType != entityType.String {
			return false
		}
		return !search.Valid || matchesSearch(e, search.String)
	})
	slices.SortFunc(items, byConfidenceThenName)
	return items
}

func (s *Store) ListEntities(ctx context.Context, arg pgdb.ListEntitiesParams) ([]pgdb.KgEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return page(s.filterEntities(arg.EntityType, arg.Search), arg.Limit, arg.Offset), nil
}

func (s *Store) CountEntities(ctx context.Context, arg pgdb.CountEntitiesParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.filterEntities(arg.EntityType, arg.Search))), nil
}

func (s *Store) SearchEntitiesByName(ctx context.Context, arg pgdb.SearchEntitiesByNameParams) ([]pgdb.KgEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.liveEntities(func(e pgdb.KgEntity) bool {
		if len(arg.EntityTypes) > 0 && !slices.Contains(arg.EntityTypes, e.EntityType) {
			return false
		}
		return matchesSearch(e, arg.Query)
	})
	slices.SortStableFunc(items, func(a, b pgdb.KgEntity) int {
		return cmp.Compare(b.ConfidenceScore, a.ConfidenceScore)
	})
	return page(items, arg.Limit, 0), nil
}

func (s *Store) SearchEntitiesByEmbedding(ctx context.Context, arg pgdb.SearchEntitiesByEmbeddingParams) ([]pgdb.KgEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	query := arg.Embedding.Slice()
	items := s.liveEntities(func(e pgdb.KgEntity) bool {
		if e.Embedding == nil || slices.Contains(arg.ExcludeIDs, e.ID) {
			return false
		}
		return len(arg.EntityTypes) == 0 || slices.Contains(arg.EntityTypes, e.EntityType)
	})
	slices.SortStableFunc(items, func(a, b pgdb.KgEntity) int {
		return cmp.Compare(l2(a.Embedding.Slice(), query), l2(b.Embedding.Slice(), query))
	})
	return page(items, arg.Limit, 0), nil
}

func (s *Store) ListEntitiesByTypeExcluding(ctx context.Context, arg pgdb.ListEntitiesByTypeExcludingParams) ([]pgdb.KgEntity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := s.liveEntities(func(e pgdb.KgEntity) bool {
		return e.EntityType == arg.EntityType && !slices.Contains(arg.ExcludeIDs, e.ID)
	})
	slices.SortStableFunc(items, func(a, b pgdb.KgEntity) int { return cmp.Compare(a.Name, b.Name) })
	return items, nil
}

func (s *Store) GetRelationshipByTriple(ctx context.Context, arg pgdb.GetRelationshipByTripleParams) (pgdb.KgRelationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := s.liveRelationships(func(r pgdb.KgRelationship) bool {
		return r.SourceEntityID == arg.SourceEntityID &&
			r.TargetEntityID == arg.TargetEntityID &&
			r.RelationshipType == arg.RelationshipType
	})
	if len(found) == 0 {
		return pgdb.KgRelationship{}, errNoRows
	}
	return found[0], nil
}

func (s *Store) InsertRelationship(ctx context.Context, arg pgdb.InsertRelationshipParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.entities[arg.SourceEntityID]; !ok {
		return 0, foreignKeyViolation("kg_relationships_source_entity_id_fkey")
	}
	if _, ok := s.data.entities[arg.TargetEntityID]; !ok {
		return 0, foreignKeyViolation("kg_relationships_target_entity_id_fkey")
	}
	for _, r := range s.data.relationships {
		if !r.IsDeleted && r.SourceEntityID == arg.SourceEntityID &&
			r.TargetEntityID == arg.TargetEntityID && r.RelationshipType == arg.RelationshipType {
			return 0, uniqueViolation("uq_kg_relationships_triple")
		}
	}
	ts := s.timestamp()
	id := s.id()
	s.data.relationships[id] = pgdb.KgRelationship{
		ID:               id,
		SourceEntityID:   arg.SourceEntityID,
		TargetEntityID:   arg.TargetEntityID,
		RelationshipType: arg.RelationshipType,
		Attributes:       slices.Clone(arg.Attributes),
		ConfidenceScore:  arg.ConfidenceScore,
		ExtractionMethod: arg.ExtractionMethod,
		CreatedAt:        ts,
		UpdatedAt:        ts,
	}
	return id, nil
}

func (s *Store) MergeRelationship(ctx context.Context, arg pgdb.MergeRelationshipParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.data.relationships[arg.ID]
	if !ok {
		return nil
	}
	r.ConfidenceScore = max(r.ConfidenceScore, arg.ConfidenceScore)
	r.Attributes = mergeJSON(r.Attributes, arg.Attributes)
	r.UpdatedAt = s.timestamp()
	s.data.relationships[arg.ID] = r
	return nil
}

func (s *Store) GetOutgoingRelationships(ctx context.Context, sourceEntityID int64) ([]pgdb.KgRelationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveRelationships(func(r pgdb.KgRelationship) bool { return r.SourceEntityID == sourceEntityID }), nil
}

func (s *Store) GetIncomingRelationships(ctx context.Context, targetEntityID int64) ([]pgdb.KgRelationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liveRelationships(func(r pgdb.KgRelationship) bool { return r.TargetEntityID == targetEntityID }), nil
}

func (s *Store) filterRelationships(
	relationshipType pgtype.Text,
	sourceID, targetID pgtype.Int8,
	search pgtype.Text,
) []pgdb.ListRelationshipsRow {
	var rows []pgdb.ListRelationshipsRow
	for _, r := range s.liveRelationships(nil) {
		if relationshipType.Valid && r.RelationshipType != relationshipType.String {
			continue
		}
		if sourceID.Valid && r.SourceEntityID != sourceID.Int64 {
			continue
		}
		if targetID.Valid && r.TargetEntityID != targetID.Int64 {
			continue
		}
		source, okSource := s.data.entities[r.SourceEntityID]
		target, okTarget := s.data.entities[r.TargetEntityID]
		if !okSource || !okTarget {
			continue
		}
		if search.Valid && !containsFold(source.Name, search.String) && !containsFold(target.Name, search.String) {
			continue
		}
		rows = append(rows, pgdb.ListRelationshipsRow{
			KgRelationship: r,
			SourceName:     source.Name,
			TargetName:     target.Name,
		})
	}
	slices.SortStableFunc(rows, func(a, b pgdb.ListRelationshipsRow) int {
		if c := cmp.Compare(b.KgRelationship.ConfidenceScore, a.KgRelationship.ConfidenceScore); c != 0 {
			return c
		}
		return cmp.Compare(a.KgRelationship.RelationshipType, b.KgRelationship.RelationshipType)
	})
	return rows
}

func (s *Store) ListRelationships(ctx context.Context, arg pgdb.ListRelationshipsParams) ([]pgdb.ListRelationshipsRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.filterRelationships(arg.RelationshipType, arg.SourceEntityID, arg.TargetEntityID, arg.Search)
	return page(rows, arg.Limit, arg.Offset), nil
}

func (s *Store) CountRelationships(ctx context.Context, arg pgdb.CountRelationshipsParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := s.filterRelationships(arg.RelationshipType, arg.SourceEntityID, arg.TargetEntityID, arg.Search)
	return int64(len(rows)), nil
}

func (s *Store) GetSourceIDsWithRelationship(ctx context.Context, arg pgdb.GetSourceIDsWithRelationshipParams) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for _, r := range s.liveRelationships(nil) {
		if r.RelationshipType != arg.RelationshipType {
			continue
		}
		target, ok := s.data.entities[r.TargetEntityID]
		if !ok || target.IsDeleted || target.EntityType != arg.TargetType {
			continue
		}
		if !slices.Contains(ids, r.SourceEntityID) {
			ids = append(ids, r.SourceEntityID)
		}
	}
	return ids, nil
}

func (s *Store) InsertEvidence(ctx context.Context, arg pgdb.InsertEvidenceParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if arg.EntityID.Valid == arg.RelationshipID.Valid {
		return 0, checkViolation("ck_kg_evidence_target")
	}
	if arg.EntityID.Valid {
		if _, ok := s.data.entities[arg.EntityID.Int64]; !ok {
			return 0, foreignKeyViolation("kg_evidence_entity_id_fkey")
		}
	}
	if arg.RelationshipID.Valid {
		if _, ok := s.data.relationships[arg.RelationshipID.Int64]; !ok {
			return 0, foreignKeyViolation("kg_evidence_relationship_id_fkey")
		}
	}
	if _, ok := s.data.documents[arg.DocumentID]; !ok {
		return 0, foreignKeyViolation("kg_evidence_document_id_fkey")
	}
	id := s.id()
	s.data.evidence[id] = pgdb.KgEvidence{
		ID:                   id,
		EntityID:             arg.EntityID,
		RelationshipID:       arg.RelationshipID,
		DocumentID:           arg.DocumentID,
		EvidenceText:         arg.EvidenceText,
		ExtractionConfidence: arg.ExtractionConfidence,
		CreatedAt:            s.timestamp(),
	}
	return id, nil
}

func (s *Store) evidenceWhere(keep func(pgdb.KgEvidence) bool) []pgdb.KgEvidence {
	var out []pgdb.KgEvidence
	for _, e := range s.data.evidence {
		if keep(e) {
			out = append(out, e)
		}
	}
	slices.SortFunc(out, func(a, b pgdb.KgEvidence) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func (s *Store) GetEntityEvidence(ctx context.Context, entityID pgtype.Int8) ([]pgdb.KgEvidence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evidenceWhere(func(e pgdb.KgEvidence) bool {
		return e.EntityID.Valid && entityID.Valid && e.EntityID.Int64 == entityID.Int64
	}), nil
}

func (s *Store) CountEntitiesByType(ctx context.Context) ([]pgdb.CountEntitiesByTypeRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[string]int64{}
	for _, e := range s.liveEntities(nil) {
		counts[e.EntityType]++
	}
	var rows []pgdb.CountEntitiesByTypeRow
	for _, t := range slices.Sorted(maps.Keys(counts)) {
		rows = append(rows, pgdb.CountEntitiesByTypeRow{EntityType: t, Count: counts[t]})
	}
	return rows, nil
}

func (s *Store) CountRelationshipsByType(ctx context.Context) ([]pgdb.CountRelationshipsByTypeRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[string]int64{}
	for _, r := range s.liveRelationships(nil) {
		counts[r.RelationshipType]++
	}
	var rows []pgdb.CountRelationshipsByTypeRow
	for _, t := range slices.Sorted(maps.Keys(counts)) {
		rows = append(rows, pgdb.CountRelationshipsByTypeRow{RelationshipType: t, Count: counts[t]})
	}
	return rows, nil
}

func (s *Store) AverageEntityConfidence(ctx context.Context) (pgtype.Float8, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	live := s.liveEntities(nil)
	if len(live) == 0 {
		return pgtype.Float8{}, nil
	}
	var sum float64
	for _, e := range live {
		sum += e.ConfidenceScore
	}
	return pgtype.Float8{Float64: sum / float64(len(live)), Valid: true}, nil
}

func (s *Store) GetDocument(ctx context.Context, id int64) (pgdb.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data.documents[id]
	if !ok {
		return pgdb.Document{}, errNoRows
	}
	return d, nil
}

func (s *Store) UpdateDocumentExtractionStatus(ctx context.Context, arg pgdb.UpdateDocumentExtractionStatusParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data.documents[arg.ID]
	if !ok {
		return 0, nil
	}
	d.KgExtractionStatus = arg.KgExtractionStatus
	d.UpdatedAt = s.timestamp()
	s.data.documents[arg.ID] = d
	return 1, nil
}
