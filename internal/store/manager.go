package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/voxboard-ai/dashboard-core/internal/model"
	"github.com/voxboard-ai/dashboard-core/pkg/logger"
)

// Manager is the explicit-tenant CRUD facade over the engine. It is the
// preferred path for callers that already know which tenant they act for,
// such as the HTTP handlers.
type Manager struct {
	engine *Engine
	logger *logger.Logger
}

// NewManager creates a manager over the shared engine.
func NewManager(engine *Engine, log *logger.Logger) *Manager {
	return &Manager{
		engine: engine,
		logger: log,
	}
}

// Engine exposes the underlying engine for wiring the other facade.
func (m *Manager) Engine() *Engine {
	return m.engine
}

// Create adds a new record to a tenant's collection.
func (m *Manager) Create(ctx context.Context, tenantID, collection string, input model.Record) (model.Record, error) {
	rec, err := m.engine.Create(ctx, tenantID, collection, input)
	if err != nil {
		return nil, err
	}
	m.logger.Info("record created",
		zap.String("collection", collection),
		zap.String("record_id", rec.ID()),
		zap.String("tenant_id", tenantID))
	return rec, nil
}

// Read returns a record by id, or nil when absent. A miss is not an error.
func (m *Manager) Read(ctx context.Context, tenantID, collection, id string) (model.Record, bool) {
	return m.engine.Get(tenantID, collection, id)
}

// Update applies a patch to an existing record.
func (m *Manager) Update(ctx context.Context, tenantID, collection, id string, patch model.Record) (model.Record, error) {
	rec, err := m.engine.Update(ctx, tenantID, collection, id, patch)
	if err != nil {
		return nil, err
	}
	m.logger.Info("record updated",
		zap.String("collection", collection),
		zap.String("record_id", id),
		zap.String("tenant_id", tenantID),
		zap.Int("version", rec.Version()))
	return rec, nil
}

// Delete removes a record by id. Idempotent.
func (m *Manager) Delete(ctx context.Context, tenantID, collection, id string) error {
	if err := m.engine.Delete(ctx, tenantID, collection, id); err != nil {
		return err
	}
	m.logger.Info("record deleted",
		zap.String("collection", collection),
		zap.String("record_id", id),
		zap.String("tenant_id", tenantID))
	return nil
}

// List returns a tenant's full collection, newest-first.
func (m *Manager) List(ctx context.Context, tenantID, collection string) []model.Record {
	return m.engine.List(tenantID, collection)
}
