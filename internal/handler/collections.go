// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/voxboard-ai/dashboard-core/internal/middleware"
	"github.com/voxboard-ai/dashboard-core/internal/model"
	"github.com/voxboard-ai/dashboard-core/internal/store"
	"github.com/voxboard-ai/dashboard-core/pkg/logger"
)

// maxItemBytes caps decoded item payloads.
const maxItemBytes = 1 << 20

// CollectionHandler handles collection item endpoints.
type CollectionHandler struct {
	manager *store.Manager
	logger  *logger.Logger
}

// NewCollectionHandler creates a new collection handler.
func NewCollectionHandler(manager *store.Manager, log *logger.Logger) *CollectionHandler {
	return &CollectionHandler{
		manager: manager,
		logger:  log,
	}
}

// List handles GET /api/v1/collections/{collection}/items
func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := middleware.GetUserID(ctx)
	collection := chi.URLParam(r, "collection")

	if err := middleware.ValidateCollectionName(collection); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items := h.manager.List(ctx, tenantID, collection)
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
	})
}

// Create handles POST /api/v1/collections/{collection}/items
func (h *CollectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := middleware.GetUserID(ctx)
	collection := chi.URLParam(r, "collection")

	if err := middleware.ValidateCollectionName(collection); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var input model.Record
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxItemBytes)).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.manager.Create(ctx, tenantID, collection, input)
	if err != nil {
		h.writeStoreError(w, r, err, "failed to create item")
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// Get handles GET /api/v1/collections/{collection}/items/{id}
func (h *CollectionHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := middleware.GetUserID(ctx)
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	if err := middleware.ValidateCollectionName(collection); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateItemID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, ok := h.manager.Read(ctx, tenantID, collection, id)
	if !ok {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// Update handles PATCH /api/v1/collections/{collection}/items/{id}
func (h *CollectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := middleware.GetUserID(ctx)
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	if err := middleware.ValidateCollectionName(collection); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateItemID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var patch model.Record
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxItemBytes)).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	rec, err := h.manager.Update(ctx, tenantID, collection, id, patch)
	if err != nil {
		h.writeStoreError(w, r, err, "failed to update item")
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /api/v1/collections/{collection}/items/{id}
func (h *CollectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tenantID := middleware.GetUserID(ctx)
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	if err := middleware.ValidateCollectionName(collection); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := middleware.ValidateItemID(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.manager.Delete(ctx, tenantID, collection, id); err != nil {
		h.writeStoreError(w, r, err, "failed to delete item")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *CollectionHandler) writeStoreError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var ve *store.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":      ve.Error(),
			"violations": ve.Violations,
		})
		return
	}
	if store.IsNotFound(err) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	h.logger.Error("store operation failed",
		zap.String("correlation_id", middleware.GetCorrelationID(r.Context())),
		zap.Error(err))
	writeError(w, http.StatusInternalServerError, fallback)
}
