// Package memory implements the pgdb query layer on in-process maps. It
// mirrors the constraints of the Postgres schema (partial unique indexes,
// foreign keys, the evidence target check) closely enough for service tests
// and local runs without a database.
package memory

import (
	"cmp"
	"context"
	"maps"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
	pgdb "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/db/pgx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pgvector/pgvector-go"
)

type state struct {
	documents     map[int64]pgdb.Document
	entities      map[int64]pgdb.KgEntity
	relationships map[int64]pgdb.KgRelationship
	evidence      map[int64]pgdb.KgEvidence
	nextID        int64
}

func (s state) clone() state {
	return state{
		documents:     maps.Clone(s.documents),
		entities:      maps.Clone(s.entities),
		relationships: maps.Clone(s.relationships),
		evidence:      maps.Clone(s.evidence),
		nextID:        s.nextID,
	}
}

// Store is a pgdb.Store backed by maps. Transactions are serialized and
// rolled back by restoring a snapshot.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data state
	now  func() time.Time
}

var _ pgdb.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		data: state{
			documents:     map[int64]pgdb.Document{},
			entities:      map[int64]pgdb.KgEntity{},
			relationships: map[int64]pgdb.KgRelationship{},
			evidence:      map[int64]pgdb.KgEvidence{},
		},
		now: time.Now,
	}
}

func (s *Store) ExecTx(ctx context.Context, fn func(pgdb.Querier) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.data.clone()
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return ctx.Err()
}

// AddDocument registers a document row so evidence can reference it.
func (s *Store) AddDocument(id int64, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := s.timestamp()
	s.data.documents[id] = pgdb.Document{
		ID:                 id,
		Title:              title,
		KgExtractionStatus: "pending",
		CreatedAt:          ts,
		UpdatedAt:          ts,
	}
}

// Evidence returns all evidence rows ordered by id.
func (s *Store) Evidence() []pgdb.KgEvidence {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.data.evidence, func(e pgdb.KgEvidence) int64 { return e.ID })
}

// Entities returns all entity rows, including soft-deleted ones, ordered by id.
func (s *Store) Entities() []pgdb.KgEntity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.data.entities, func(e pgdb.KgEntity) int64 { return e.ID })
}

// Relationships returns all relationship rows ordered by id.
func (s *Store) Relationships() []pgdb.KgRelationship {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.data.relationships, func(r pgdb.KgRelationship) int64 { return r.ID })
}

func (s *Store) timestamp() pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: s.now(), Valid: true}
}

func (s *Store) id() int64 {
	s.data.nextID++
	return s.data.nextID
}

func sortedValues[T any](m map[int64]T, id func(T) int64) []T {
	out := slices.Collect(maps.Values(m))
	slices.SortFunc(out, func(a, b T) int {
		return cmp.Compare(id(a), id(b))
	})
	return out
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint, Message: "duplicate key value violates unique constraint"}
}

func foreignKeyViolation(constraint string) error {
	return &pgconn.PgError{Code: "23503", ConstraintName: constraint, Message: "insert or update violates foreign key constraint"}
}

func checkViolation(constraint string) error {
	return &pgconn.PgError{Code: "23514", ConstraintName: constraint, Message: "new row violates check constraint"}
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func matchesSearch(e pgdb.KgEntity, search string) bool {
	return containsFold(e.Name, search) || (e.LocationText.Valid && containsFold(e.LocationText.String, search))
}

func l2(a, b []float32) float64 {
	var sum float64
	for i := range min(len(a), len(b)) {
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

func page[T any](items []T, limit, offset int32) []T {
	if offset < 0 {
		offset = 0
	}
	if int(offset) >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit >= 0 && int(limit) < len(items) {
		items = items[:limit]
	}
	return items
}

func vectorOrNil(v *pgvector.Vector) *pgvector.Vector {
	if v == nil {
		return nil
	}
	c := pgvector.NewVector(slices.Clone(v.Slice()))
	return &c
}

// mergeJSON behaves like incoming || existing on jsonb objects.
func mergeJSON(existing, incoming []byte) []byte {
	merged := common.MergeAttributes(
		common.DecodeAttributes(existing),
		common.DecodeAttributes(incoming),
	)
	return common.EncodeAttributes(merged)
}

var errNoRows = pgx.ErrNoRows
