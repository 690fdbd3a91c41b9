package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voxboard-ai/dashboard-core/internal/model"
	"github.com/voxboard-ai/dashboard-core/internal/notify"
	"github.com/voxboard-ai/dashboard-core/internal/storage"
	"github.com/voxboard-ai/dashboard-core/pkg/logger"
	"github.com/voxboard-ai/dashboard-core/pkg/metrics"
)

const dispatchTimeout = 10 * time.Second

// Engine is the single storage engine behind both access facades. It owns
// the load-mutate-save cycle over the namespaced substrate; the explicit
// tenant Manager and the session-implicit query client are thin adapters
// over it.
type Engine struct {
	store    storage.Store
	schemas  *Registry
	notifier notify.Notifier
	logger   *logger.Logger

	// mu serializes load-mutate-save cycles; handlers run concurrently
	// and the substrate has no compare-and-swap.
	mu sync.Mutex

	// wg tracks in-flight sync dispatches so shutdown can drain them.
	wg  sync.WaitGroup
	now func() time.Time
}

// NewEngine creates an engine over the given substrate. notifier may be nil
// when no remote sync target is configured.
func NewEngine(store storage.Store, schemas *Registry, notifier notify.Notifier, log *logger.Logger) *Engine {
	if schemas == nil {
		schemas = NewRegistry()
	}
	return &Engine{
		store:    store,
		schemas:  schemas,
		notifier: notifier,
		logger:   log,
		now:      time.Now,
	}
}

// LoadCollection returns a tenant's collection, seeding demo content on
// first access. Corrupt stored JSON is logged and treated as empty; it is
// never surfaced to callers.
func (e *Engine) LoadCollection(tenantID, collection string) []model.Record {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.loadLocked(tenantID, collection)
}

func (e *Engine) loadLocked(tenantID, collection string) []model.Record {
	key := StorageKey(tenantID, collection)

	raw, ok := e.store.Get(key)
	if !ok {
		seeded := Seed(collection)
		e.saveLocked(tenantID, collection, seeded)
		return seeded
	}

	var records []model.Record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		e.logger.Error("corrupt collection data, treating as empty",
			zap.String("collection", collection),
			zap.String("tenant_id", tenantID),
			zap.Error(err))
		return []model.Record{}
	}
	metrics.CollectionRecords.WithLabelValues(collection).Set(float64(len(records)))
	return records
}

// SaveCollection serializes and writes a collection through the substrate.
func (e *Engine) SaveCollection(tenantID, collection string, records []model.Record) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.saveLocked(tenantID, collection, records)
}

func (e *Engine) saveLocked(tenantID, collection string, records []model.Record) {
	if records == nil {
		records = []model.Record{}
	}
	bytes, err := json.Marshal(records)
	if err != nil {
		e.logger.Error("failed to serialize collection",
			zap.String("collection", collection),
			zap.String("tenant_id", tenantID),
			zap.Error(err))
		return
	}
	e.store.Set(StorageKey(tenantID, collection), string(bytes))
	metrics.CollectionRecords.WithLabelValues(collection).Set(float64(len(records)))
}

// Create validates input, stamps the managed fields, prepends the record
// and persists the collection. Nothing is written on validation failure.
func (e *Engine) Create(ctx context.Context, tenantID, collection string, input model.Record) (model.Record, error) {
	if err := e.schemas.Validate(collection, input); err != nil {
		metrics.RecordStoreOperation(collection, "create", "invalid")
		return nil, err
	}

	rec := input.Clone()
	if rec == nil {
		rec = model.Record{}
	}
	if rec.ID() == "" {
		rec[model.FieldID] = newRecordID(collection)
	}
	if rec.CreatedAt() == "" {
		rec[model.FieldCreatedAt] = e.timestamp()
	}
	rec[model.FieldVersion] = 1
	rec[model.FieldUserID] = tenantID

	e.mu.Lock()
	records := e.loadLocked(tenantID, collection)
	records = append([]model.Record{rec}, records...)
	e.saveLocked(tenantID, collection, records)
	e.mu.Unlock()

	e.dispatch(model.ChangeEvent{
		Type:       model.ChangeCreated,
		TenantID:   tenantID,
		Collection: collection,
		RecordID:   rec.ID(),
		Record:     rec.Clone(),
		OccurredAt: e.now().UTC(),
	})

	metrics.RecordStoreOperation(collection, "create", "ok")
	return rec, nil
}

// Get returns the record with the given id, or false when absent.
func (e *Engine) Get(tenantID, collection, id string) (model.Record, bool) {
	for _, rec := range e.LoadCollection(tenantID, collection) {
		if rec.ID() == id {
			return rec, true
		}
	}
	return nil, false
}

// Update merges patch over the existing record, bumps version and
// updated_at, revalidates and persists. Managed identity fields in the
// patch are ignored.
func (e *Engine) Update(ctx context.Context, tenantID, collection, id string, patch model.Record) (model.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	records := e.loadLocked(tenantID, collection)

	idx := -1
	for i, rec := range records {
		if rec.ID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		metrics.RecordStoreOperation(collection, "update", "not_found")
		return nil, &NotFoundError{Collection: collection, ID: id}
	}

	merged := records[idx].Merge(patch)
	merged[model.FieldUpdatedAt] = e.timestamp()
	merged[model.FieldVersion] = records[idx].Version() + 1

	if err := e.schemas.Validate(collection, merged); err != nil {
		metrics.RecordStoreOperation(collection, "update", "invalid")
		return nil, err
	}

	records[idx] = merged
	e.saveLocked(tenantID, collection, records)

	e.dispatch(model.ChangeEvent{
		Type:       model.ChangeUpdated,
		TenantID:   tenantID,
		Collection: collection,
		RecordID:   id,
		Record:     merged.Clone(),
		OccurredAt: e.now().UTC(),
	})

	metrics.RecordStoreOperation(collection, "update", "ok")
	return merged, nil
}

// Delete removes the record with the given id. Deleting an absent record
// is a no-op, so delete is idempotent.
func (e *Engine) Delete(ctx context.Context, tenantID, collection, id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	records := e.loadLocked(tenantID, collection)

	idx := -1
	for i, rec := range records {
		if rec.ID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		metrics.RecordStoreOperation(collection, "delete", "noop")
		return nil
	}

	records = append(records[:idx], records[idx+1:]...)
	e.saveLocked(tenantID, collection, records)

	e.dispatch(model.ChangeEvent{
		Type:       model.ChangeDeleted,
		TenantID:   tenantID,
		Collection: collection,
		RecordID:   id,
		OccurredAt: e.now().UTC(),
	})

	metrics.RecordStoreOperation(collection, "delete", "ok")
	return nil
}

// List returns the full collection, newest-first, seeding on first access.
func (e *Engine) List(tenantID, collection string) []model.Record {
	records := e.LoadCollection(tenantID, collection)
	metrics.RecordStoreOperation(collection, "list", "ok")
	return records
}

// ClearTenant removes every substrate key in the tenant's namespace.
func (e *Engine) ClearTenant(tenantID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for _, key := range e.store.Keys() {
		if OwnsKey(tenantID, key) {
			e.store.Remove(key)
		}
	}
}

// Wait blocks until all in-flight sync dispatches have completed.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// dispatch fires a change event at the notifier on a detached goroutine.
// The outcome is logged and counted but never reaches the caller; the
// local store is the source of truth.
func (e *Engine) dispatch(event model.ChangeEvent) {
	if e.notifier == nil {
		return
	}
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()

		if err := e.notifier.Publish(ctx, event); err != nil {
			e.logger.Warn("remote sync dispatch failed",
				zap.String("collection", event.Collection),
				zap.String("record_id", event.RecordID),
				zap.String("type", string(event.Type)),
				zap.Error(err))
			metrics.RecordSyncDispatch("error")
			return
		}
		metrics.RecordSyncDispatch("ok")
	}()
}

func (e *Engine) timestamp() string {
	return e.now().UTC().Format(time.RFC3339Nano)
}

func newRecordID(collection string) string {
	return singularize(collection) + "_" + uuid.Must(uuid.NewV7()).String()
}

func singularize(collection string) string {
	switch {
	case strings.HasSuffix(collection, "ies"):
		return collection[:len(collection)-3] + "y"
	case strings.HasSuffix(collection, "s"):
		return strings.TrimSuffix(collection, "s")
	default:
		return collection
	}
}
