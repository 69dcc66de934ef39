package routes

import (
	"errors"
	"net/http"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/util"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/query"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/store"

	"github.com/labstack/echo/v4"
)

type entityIDParams struct {
	ID int64 `param:"id" validate:"required,min=1"`
}

func GetEntitiesHandler(c echo.Context) error {
	type getEntitiesParams struct {
		EntityType string `query:"entity_type" validate:"omitempty,entity_type"`
		Search     string `query:"search"`
		Limit      int    `query:"limit" validate:"min=1,max=500"`
		Offset     int    `query:"offset" validate:"min=0"`
	}

	params := &getEntitiesParams{Limit: 100}
	if ok, err := bindParams(c, params); !ok {
		return err
	}

	entities, total, err := app(c).Query.ListEntities(c.Request().Context(), query.EntityFilter{
		Type:   params.EntityType,
		Search: params.Search,
		Limit:  params.Limit,
		Offset: params.Offset,
	})
	if err != nil {
		return internalError(c, "Failed to list entities", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"entities": emptyIfNil(entities),
		"total":    total,
		"limit":    params.Limit,
		"offset":   params.Offset,
	})
}

func SearchEntitiesHandler(c echo.Context) error {
	type searchEntitiesParams struct {
		Query       string `query:"q" validate:"required"`
		EntityTypes string `query:"entity_types"`
		Limit       int    `query:"limit" validate:"min=1,max=100"`
	}

	params := &searchEntitiesParams{Limit: 20}
	if ok, err := bindParams(c, params); !ok {
		return err
	}

	types := util.SplitList(params.EntityTypes)
	for _, t := range types {
		if !common.IsEntityType(t) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown entity type: " + t})
		}
	}

	entities, err := app(c).Query.SearchEntities(c.Request().Context(), params.Query, types, params.Limit)
	if err != nil {
		return internalError(c, "Failed to search entities", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"query":    params.Query,
		"entities": emptyIfNil(entities),
	})
}

func GetEntityHandler(c echo.Context) error {
	params := new(entityIDParams)
	if ok, err := bindParams(c, params); !ok {
		return err
	}

	detail, err := app(c).Query.GetEntityDetail(c.Request().Context(), params.ID)
	if errors.Is(err, query.ErrNotFound) {
		return notFound(c, "Entity not found")
	}
	if err != nil {
		return internalError(c, "Failed to load entity", err)
	}

	detail.Outgoing = emptyIfNil(detail.Outgoing)
	detail.Incoming = emptyIfNil(detail.Incoming)
	detail.Evidence = emptyIfNil(detail.Evidence)
	return c.JSON(http.StatusOK, detail)
}

func GetEntityNetworkHandler(c echo.Context) error {
	type getEntityNetworkParams struct {
		ID       int64 `param:"id" validate:"required,min=1"`
		MaxDepth int   `query:"max_depth" validate:"min=1,max=4"`
	}

	params := &getEntityNetworkParams{MaxDepth: 2}
	if ok, err := bindParams(c, params); !ok {
		return err
	}

	network, err := app(c).Query.GetEntityNetwork(c.Request().Context(), params.ID, params.MaxDepth)
	if errors.Is(err, query.ErrNotFound) {
		return notFound(c, "Entity not found")
	}
	if err != nil {
		return internalError(c, "Failed to load entity network", err)
	}

	network.Nodes = emptyIfNil(network.Nodes)
	network.Edges = emptyIfNil(network.Edges)
	return c.JSON(http.StatusOK, network)
}

func CreateEntityHandler(c echo.Context) error {
	type createEntityParams struct {
		EntityType   string         `json:"entity_type" validate:"required,entity_type"`
		Subtype      string         `json:"entity_subtype"`
		Name         string         `json:"name" validate:"required"`
		Attributes   map[string]any `json:"attributes"`
		LocationText string         `json:"location_text"`
		Confidence   *float64       `json:"confidence_score" validate:"omitempty,min=0,max=1"`
	}

	params := new(createEntityParams)
	if ok, err := bindParams(c, params); !ok {
		return err
	}

	id, err := app(c).Storage.CreateEntity(c.Request().Context(), store.ManualEntity{
		Type:         params.EntityType,
		Subtype:      params.Subtype,
		Name:         params.Name,
		Attributes:   params.Attributes,
		LocationText: params.LocationText,
		Confidence:   params.Confidence,
	})
	if err != nil {
		return storageError(c, "Failed to create entity", err)
	}

	return c.JSON(http.StatusCreated, map[string]int64{"id": id})
}

func UpdateEntityHandler(c echo.Context) error {
	type updateEntityParams struct {
		ID           int64          `param:"id" json:"-" validate:"required,min=1"`
		Name         *string        `json:"name"`
		Subtype      *string        `json:"entity_subtype"`
		Attributes   map[string]any `json:"attributes"`
		LocationText *string        `json:"location_text"`
		Confidence   *float64       `json:"confidence_score" validate:"omitempty,min=0,max=1"`
	}

	params := new(updateEntityParams)
	if ok, err := bindParams(c, params); !ok {
		return err
	}

	ctx := c.Request().Context()
	err := app(c).Storage.UpdateEntity(ctx, params.ID, store.EntityPatch{
		Name:         params.Name,
		Subtype:      params.Subtype,
		Attributes:   params.Attributes,
		LocationText: params.LocationText,
		Confidence:   params.Confidence,
	})
	if err != nil {
		return storageError(c, "Failed to update entity", err)
	}

	detail, err := app(c).Query.GetEntityDetail(ctx, params.ID)
	if err != nil {
		return internalError(c, "Failed to load updated entity", err)
	}
	return c.JSON(http.StatusOK, detail.Entity)
}

func DeleteEntityHandler(c echo.Context) error {
	params := new(entityIDParams)
	if ok, err := bindParams(c, params); !ok {
		return err
	}

	if err := app(c).Storage.DeleteEntity(c.Request().Context(), params.ID); err != nil {
		return storageError(c, "Failed to delete entity", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func storageError(c echo.Context, msg string, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return notFound(c, "Entity not found")
	case errors.Is(err, store.ErrEntityExists):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidEntity):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	return internalError(c, msg, err)
}
