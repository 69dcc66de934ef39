package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/queue"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/logger"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/store"

	"github.com/labstack/echo/v4"
)

// ExtractDocumentHandler marks a document pending and queues it for the
// extraction worker. The body is optional; without content or file key the
// worker extracts an empty document.
func ExtractDocumentHandler(c echo.Context) error {
	type extractDocumentParams struct {
		ID          int64                   `param:"id" json:"-" validate:"required,min=1"`
		Content     string                  `json:"content"`
		FileKey     string                  `json:"file_key"`
		ContentType string                  `json:"content_type"`
		Metadata    common.DocumentMetadata `json:"metadata"`
	}

	params := new(extractDocumentParams)
	if ok, err := bindParams(c, params); !ok {
		return err
	}

	a := app(c)
	if a.Queue == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "Extraction queue unavailable"})
	}

	ctx := c.Request().Context()
	err := a.Storage.SetExtractionStatus(ctx, params.ID, common.ExtractionStatusPending)
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, "Document not found")
	}
	if err != nil {
		return internalError(c, "Failed to update document status", err)
	}

	data, err := json.Marshal(queue.ExtractMsg{
		DocumentID:  params.ID,
		Content:     params.Content,
		FileKey:     params.FileKey,
		ContentType: params.ContentType,
		Metadata:    params.Metadata,
	})
	if err != nil {
		return internalError(c, "Failed to encode extraction message", err)
	}
	if err := queue.PublishFIFO(a.Queue, queue.ExtractQueue, data); err != nil {
		return internalError(c, "Failed to queue extraction", err)
	}

	logger.Info("[Server][Extract] Queued document for extraction", "document_id", params.ID)
	return c.JSON(http.StatusAccepted, map[string]any{
		"document_id": params.ID,
		"status":      common.ExtractionStatusPending,
	})
}
