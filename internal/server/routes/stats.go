package routes

import (
	"net/http"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"

	"github.com/labstack/echo/v4"
)

func GetStatisticsHandler(c echo.Context) error {
	stats, err := app(c).Query.GetStatistics(c.Request().Context())
	if err != nil {
		return internalError(c, "Failed to compute statistics", err)
	}
	return c.JSON(http.StatusOK, stats)
}

// GetCoverageGapsHandler lists entities of one type that have no live
// relationship of the required type to any entity of the target type, e.g.
// locations no organization serves.
func GetCoverageGapsHandler(c echo.Context) error {
	type getCoverageGapsParams struct {
		EntityType           string `query:"entity_type" validate:"required,entity_type"`
		RequiredRelationship string `query:"required_relationship" validate:"required,relationship_type"`
		TargetType           string `query:"target_type" validate:"required,entity_type"`
	}

	params := new(getCoverageGapsParams)
	if ok, err := bindParams(c, params); !ok {
		return err
	}

	gaps, err := app(c).Query.FindCoverageGaps(
		c.Request().Context(),
		params.EntityType,
		params.RequiredRelationship,
		params.TargetType,
	)
	if err != nil {
		return internalError(c, "Failed to find coverage gaps", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"entity_type":           params.EntityType,
		"required_relationship": params.RequiredRelationship,
		"target_type":           params.TargetType,
		"entities":              emptyIfNil(gaps),
	})
}

func GetTypesHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{
		"entity_types":       common.EntityTypes,
		"relationship_types": common.RelationshipTypes,
	})
}
