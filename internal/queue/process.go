package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/util"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/ai"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/leaselock"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/loader"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/logger"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/store"
)

const (
	metadataTimeout = 2 * time.Minute

	// statusAttempts covers the final status write. Failing it would send
	// an already stored document through the whole pipeline again.
	statusAttempts = 3
)

// Extractor turns document text into graph candidates.
type Extractor interface {
	Extract(
		ctx context.Context,
		content string,
		metadata common.DocumentMetadata,
	) ([]common.EntityCandidate, []common.RelationshipCandidate)
}

type Processor struct {
	storage   store.GraphStorage
	extractor Extractor
	locker    leaselock.Locker
	newLoader func() loader.FileLoader
	events    Channel
	aiClient  ai.GraphAIClient
}

type NewProcessorParams struct {
	Storage   store.GraphStorage
	Extractor Extractor
	Locker    leaselock.Locker

	// NewLoader builds the loader chain for one message, so its caches
	// live only as long as the message. Nil disables file-backed messages.
	NewLoader func() loader.FileLoader

	// Events receives status events. Nil disables them.
	Events Channel

	// AIClient describes documents that arrive without metadata. Nil
	// disables metadata inference.
	AIClient ai.GraphAIClient
}

func NewProcessor(params NewProcessorParams) *Processor {
	return &Processor{
		storage:   params.Storage,
		extractor: params.Extractor,
		locker:    params.Locker,
		newLoader: params.NewLoader,
		events:    params.Events,
		aiClient:  params.AIClient,
	}
}

// ProcessExtractMessage runs the extraction pipeline for one message while
// holding the document's lease. Concurrent messages for the same document
// fail with leaselock.ErrBusy and are retried later.
func (p *Processor) ProcessExtractMessage(ctx context.Context, body []byte) error {
	msg, err := ParseExtractMsg(body)
	if err != nil {
		return err
	}

	log := logger.With("document_id", msg.DocumentID)
	return p.locker.WithLease(
		ctx,
		util.DocumentLockKey(msg.DocumentID),
		leaselock.Options{},
		func(ctx context.Context) error {
			return p.extract(ctx, log, msg)
		},
	)
}

func (p *Processor) extract(ctx context.Context, log *logger.Logger, msg ExtractMsg) error {
	start := time.Now()

	err := p.storage.SetExtractionStatus(ctx, msg.DocumentID, common.ExtractionStatusProcessing)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: document %d does not exist", ErrInvalidMessage, msg.DocumentID)
	}
	if err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}
	p.publish(log, ExtractionEvent{DocumentID: msg.DocumentID, Status: common.ExtractionStatusProcessing})

	content, err := p.content(ctx, msg)
	if err != nil {
		log.Error("[Queue][Extract] Failed to load document", "key", msg.FileKey, "err", err)
		p.fail(ctx, log, msg.DocumentID, err)
		return fmt.Errorf("load document: %w", err)
	}

	metadata := p.metadata(ctx, log, msg, content)
	entities, relationships := p.extractor.Extract(ctx, content, metadata)
	log.Debug(
		"[Queue][Extract] Candidates extracted",
		"entities", len(entities),
		"relationships", len(relationships),
	)

	result := p.storage.StoreResults(ctx, msg.DocumentID, entities, relationships)

	err = util.RetryErrWithContext(ctx, statusAttempts, func(ctx context.Context) error {
		return p.storage.SetExtractionStatus(ctx, msg.DocumentID, common.ExtractionStatusCompleted)
	})
	if err != nil {
		return fmt.Errorf("mark completed: %w", err)
	}
	p.publish(log, ExtractionEvent{
		DocumentID:    msg.DocumentID,
		Status:        common.ExtractionStatusCompleted,
		Entities:      len(result.EntityIDs),
		Relationships: len(result.RelationshipIDs),
	})

	log.Info(
		"[Queue][Extract] Document processed",
		"entities", len(result.EntityIDs),
		"relationships", len(result.RelationshipIDs),
		"duration", time.Since(start),
	)
	return nil
}

func (p *Processor) content(ctx context.Context, msg ExtractMsg) (string, error) {
	if msg.Content != "" || msg.FileKey == "" {
		return msg.Content, nil
	}
	if p.newLoader == nil {
		return "", fmt.Errorf("%w: no file loader configured for %q", ErrInvalidMessage, msg.FileKey)
	}

	text, err := p.newLoader().GetFileText(ctx, loader.SourceFile{
		DocumentID:  msg.DocumentID,
		Key:         msg.FileKey,
		ContentType: msg.ContentType,
	})
	if err != nil {
		return "", err
	}
	return string(text), nil
}

func (p *Processor) metadata(ctx context.Context, log *logger.Logger, msg ExtractMsg, content string) common.DocumentMetadata {
	m := msg.Metadata
	if m.Title != "" || m.HazardType != "" || m.Location != "" || len(m.Tags) > 0 {
		return m
	}
	if p.aiClient == nil || strings.TrimSpace(content) == "" {
		return m
	}

	fileName := ""
	if msg.FileKey != "" {
		fileName = path.Base(msg.FileKey)
	}
	ctx, cancel := context.WithTimeout(ctx, metadataTimeout)
	defer cancel()
	inferred, err := ai.ExtractDocumentMetadata(ctx, p.aiClient, fileName, content)
	if err != nil {
		log.Warn("[Queue][Extract] Metadata inference failed, extracting without metadata", "err", err)
		return m
	}
	log.Debug("[Queue][Extract] Inferred document metadata", "title", inferred.Title, "hazard_type", inferred.HazardType)
	return inferred
}

func (p *Processor) fail(ctx context.Context, log *logger.Logger, documentID int64, cause error) {
	if err := p.storage.SetExtractionStatus(ctx, documentID, common.ExtractionStatusFailed); err != nil {
		log.Error("[Queue][Extract] Failed to mark document as failed", "err", err)
	}
	p.publish(log, ExtractionEvent{
		DocumentID: documentID,
		Status:     common.ExtractionStatusFailed,
		Error:      util.TruncateRunes(cause.Error(), maxErrorRunes),
	})
}

func (p *Processor) publish(log *logger.Logger, event ExtractionEvent) {
	if p.events == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		log.Warn("[Queue][Events] Failed to encode event", "err", err)
		return
	}
	if err := PublishTopic(p.events, event.Topic(), data); err != nil {
		log.Warn("[Queue][Events] Failed to publish event", "topic", event.Topic(), "err", err)
	}
}
