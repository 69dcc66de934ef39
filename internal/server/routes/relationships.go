package routes

import (
	"net/http"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/query"

	"github.com/labstack/echo/v4"
)

func GetRelationshipsHandler(c echo.Context) error {
	type getRelationshipsParams struct {
		RelationshipType string `query:"relationship_type" validate:"omitempty,relationship_type"`
		SourceEntityID   int64  `query:"source_entity_id" validate:"min=0"`
		TargetEntityID   int64  `query:"target_entity_id" validate:"min=0"`
		Search           string `query:"search"`
		Limit            int    `query:"limit" validate:"min=1,max=500"`
		Offset           int    `query:"offset" validate:"min=0"`
	}

	params := &getRelationshipsParams{Limit: 100}
	if ok, err := bindParams(c, params); !ok {
		return err
	}

	relationships, total, err := app(c).Query.ListRelationships(c.Request().Context(), query.RelationshipFilter{
		Type:           params.RelationshipType,
		SourceEntityID: params.SourceEntityID,
		TargetEntityID: params.TargetEntityID,
		Search:         params.Search,
		Limit:          params.Limit,
		Offset:         params.Offset,
	})
	if err != nil {
		return internalError(c, "Failed to list relationships", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"relationships": emptyIfNil(relationships),
		"total":         total,
		"limit":         params.Limit,
		"offset":        params.Offset,
	})
}
