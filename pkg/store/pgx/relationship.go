package pgx

import (
	"context"
	"errors"
	"fmt"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
	pgdb "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/db/pgx"
)

var errUnresolvedEndpoint = errors.New("unresolved relationship endpoint")

// storeRelationship returns ok=false when an endpoint does not name a stored
// entity. Such candidates are skipped without an error.
func (s *GraphDBStorage) storeRelationship(
	ctx context.Context,
	documentID int64,
	candidate common.RelationshipCandidate,
) (int64, bool, error) {
	if !common.IsRelationshipType(candidate.Type) {
		return 0, false, fmt.Errorf("unknown relationship type %q", candidate.Type)
	}
	confidence := common.ClampConfidence(candidate.Confidence)
	attrs := common.EncodeAttributes(candidate.Attributes)

	var id int64
	err := s.execWithRetry(ctx, func(q pgdb.Querier) error {
		sourceID, ok, err := resolveEntity(ctx, q, candidate.SourceName, candidate.SourceType)
		if err != nil {
			return err
		}
		if !ok {
			return errUnresolvedEndpoint
		}
		targetID, ok, err := resolveEntity(ctx, q, candidate.TargetName, candidate.TargetType)
		if err != nil {
			return err
		}
		if !ok {
			return errUnresolvedEndpoint
		}

		existing, err := q.GetRelationshipByTriple(ctx, pgdb.GetRelationshipByTripleParams{
			SourceEntityID:   sourceID,
			TargetEntityID:   targetID,
			RelationshipType: candidate.Type,
		})
		switch {
		case err == nil:
			id = existing.ID
			err = q.MergeRelationship(ctx, pgdb.MergeRelationshipParams{
				ID:              existing.ID,
				ConfidenceScore: confidence,
				Attributes:      attrs,
			})
		case pgdb.IsNotFound(err):
			id, err = q.InsertRelationship(ctx, pgdb.InsertRelationshipParams{
				SourceEntityID:   sourceID,
				TargetEntityID:   targetID,
				RelationshipType: candidate.Type,
				Attributes:       attrs,
				ConfidenceScore:  confidence,
				ExtractionMethod: common.ExtractionMethodLLM,
			})
		}
		if err != nil {
			return err
		}

		return s.insertEvidence(ctx, q, documentID, nil, &id, candidate.EvidenceText, confidence)
	})
	if errors.Is(err, errUnresolvedEndpoint) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}
