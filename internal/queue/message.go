package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
)

// ErrInvalidMessage marks messages that can never succeed. They go to the
// dead-letter queue without retries.
var ErrInvalidMessage = errors.New("invalid message")

// ExtractMsg asks the worker to extract the knowledge graph of one document.
// The body is either inline in Content or stored under FileKey.
type ExtractMsg struct {
	DocumentID  int64                   `json:"document_id"`
	Content     string                  `json:"content,omitempty"`
	FileKey     string                  `json:"file_key,omitempty"`
	ContentType string                  `json:"content_type,omitempty"`
	Metadata    common.DocumentMetadata `json:"metadata"`
}

// ParseExtractMsg decodes a message body. A message with neither content nor
// file key is valid and describes an empty document.
func ParseExtractMsg(body []byte) (ExtractMsg, error) {
	var msg ExtractMsg
	if err := json.Unmarshal(body, &msg); err != nil {
		return msg, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	if msg.DocumentID <= 0 {
		return msg, fmt.Errorf("%w: document_id must be positive", ErrInvalidMessage)
	}
	return msg, nil
}

// ExtractionEvent is published on the events exchange whenever a document
// changes extraction status.
type ExtractionEvent struct {
	DocumentID    int64  `json:"document_id"`
	Status        string `json:"status"`
	Entities      int    `json:"entities"`
	Relationships int    `json:"relationships"`
	Error         string `json:"error,omitempty"`
}

func (e ExtractionEvent) Topic() string {
	return "kg.extraction." + e.Status
}
