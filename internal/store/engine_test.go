package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voxboard-ai/dashboard-core/internal/model"
	"github.com/voxboard-ai/dashboard-core/internal/storage"
	"github.com/voxboard-ai/dashboard-core/pkg/logger"
)

const testTenant = "user_test"

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(storage.NewMemStore(), DefaultRegistry(), nil, logger.NewNop())
}

// capturingNotifier records published events for assertions.
type capturingNotifier struct {
	mu     sync.Mutex
	events []model.ChangeEvent
	err    error
}

func (n *capturingNotifier) Publish(ctx context.Context, event model.ChangeEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return n.err
}

func (n *capturingNotifier) captured() []model.ChangeEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.ChangeEvent(nil), n.events...)
}

func TestLoadCollectionSeedsOnFirstAccess(t *testing.T) {
	e := newTestEngine(t)

	records := e.LoadCollection(testTenant, CollectionAgents)
	assert.NotEmpty(t, records)

	// Seeding is idempotent: a second load returns identical content.
	first, err := json.Marshal(records)
	require.NoError(t, err)
	second, err := json.Marshal(e.LoadCollection(testTenant, CollectionAgents))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestLoadCollectionCorruptDataTreatedAsEmpty(t *testing.T) {
	substrate := storage.NewMemStore()
	substrate.Set(StorageKey(testTenant, CollectionAgents), "{corrupt")

	e := NewEngine(substrate, DefaultRegistry(), nil, logger.NewNop())
	assert.Empty(t, e.LoadCollection(testTenant, CollectionAgents))
}

func TestCreateRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	rec, err := e.Create(ctx, testTenant, CollectionAgents, model.Record{"name": "Bot"})
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID())
	assert.NotEmpty(t, rec.CreatedAt())
	assert.Equal(t, 1, rec.Version())
	assert.Equal(t, testTenant, rec.UserID())

	got, ok := e.Get(testTenant, CollectionAgents, rec.ID())
	require.True(t, ok)
	assert.Equal(t, rec.ID(), got.ID())
	assert.Equal(t, "Bot", got["name"])
	assert.Equal(t, rec.CreatedAt(), got.CreatedAt())
}

func TestCreatePrependsNewestFirst(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	first, err := e.Create(ctx, testTenant, CollectionAgents, model.Record{"name": "First"})
	require.NoError(t, err)
	second, err := e.Create(ctx, testTenant, CollectionAgents, model.Record{"name": "Second"})
	require.NoError(t, err)

	records := e.List(testTenant, CollectionAgents)
	require.GreaterOrEqual(t, len(records), 2)
	assert.Equal(t, second.ID(), records[0].ID())
	assert.Equal(t, first.ID(), records[1].ID())
}

func TestCreateValidationFailurePerformsNoWrite(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	before := len(e.List(testTenant, CollectionAgents))

	_, err := e.Create(ctx, testTenant, CollectionAgents, model.Record{"voice": "en"})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "name", ve.Violations[0].Field)

	assert.Len(t, e.List(testTenant, CollectionAgents), before)
}

func TestCreateGeneratesUniqueIDs(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		rec, err := e.Create(ctx, testTenant, CollectionAgents, model.Record{"name": "Bot"})
		require.NoError(t, err)
		assert.False(t, seen[rec.ID()])
		seen[rec.ID()] = true
	}

	// Uniqueness holds across the whole collection, seeds included.
	all := map[string]bool{}
	for _, rec := range e.List(testTenant, CollectionAgents) {
		assert.False(t, all[rec.ID()])
		all[rec.ID()] = true
	}
}

func TestUpdateMonotonicity(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	rec, err := e.Create(ctx, testTenant, CollectionAgents, model.Record{"name": "Bot"})
	require.NoError(t, err)

	updated, err := e.Update(ctx, testTenant, CollectionAgents, rec.ID(), model.Record{"name": "Bot2"})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Version())
	assert.Equal(t, "Bot2", updated["name"])
	assert.GreaterOrEqual(t, updated.UpdatedAt(), rec.CreatedAt())

	again, err := e.Update(ctx, testTenant, CollectionAgents, rec.ID(), model.Record{"status": "active"})
	require.NoError(t, err)
	assert.Equal(t, 3, again.Version())
	assert.GreaterOrEqual(t, again.UpdatedAt(), updated.UpdatedAt())
	// Untouched fields survive the merge.
	assert.Equal(t, "Bot2", again["name"])
}

func TestUpdatePreservesIdentityFields(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	rec, err := e.Create(ctx, testTenant, CollectionAgents, model.Record{"name": "Bot"})
	require.NoError(t, err)

	updated, err := e.Update(ctx, testTenant, CollectionAgents, rec.ID(), model.Record{
		"id":         "hijacked",
		"created_at": "1999-01-01T00:00:00Z",
		"user_id":    "someone-else",
		"name":       "Bot2",
	})
	require.NoError(t, err)
	assert.Equal(t, rec.ID(), updated.ID())
	assert.Equal(t, rec.CreatedAt(), updated.CreatedAt())
	assert.Equal(t, testTenant, updated.UserID())
}

func TestUpdateNotFound(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Update(context.Background(), testTenant, CollectionAgents, "missing", model.Record{"name": "x"})
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestUpdateRevalidatesMergedRecord(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	rec, err := e.Create(ctx, testTenant, CollectionAgents, model.Record{"name": "Bot"})
	require.NoError(t, err)

	_, err = e.Update(ctx, testTenant, CollectionAgents, rec.ID(), model.Record{"name": ""})
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// The failed update left the record untouched.
	got, ok := e.Get(testTenant, CollectionAgents, rec.ID())
	require.True(t, ok)
	assert.Equal(t, "Bot", got["name"])
	assert.Equal(t, 1, got.Version())
}

func TestDeleteIdempotent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	rec, err := e.Create(ctx, testTenant, CollectionAgents, model.Record{"name": "Bot"})
	require.NoError(t, err)

	require.NoError(t, e.Delete(ctx, testTenant, CollectionAgents, rec.ID()))
	after := e.List(testTenant, CollectionAgents)

	// Second delete never fails and changes nothing.
	require.NoError(t, e.Delete(ctx, testTenant, CollectionAgents, rec.ID()))
	assert.Equal(t, len(after), len(e.List(testTenant, CollectionAgents)))

	_, ok := e.Get(testTenant, CollectionAgents, rec.ID())
	assert.False(t, ok)
}

func TestConcurrentCreatesLoseNoWrites(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	seeded := len(e.List(testTenant, CollectionAgents))

	const writers = 16
	start := make(chan struct{})
	ids := make([]string, writers)
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			rec, err := e.Create(ctx, testTenant, CollectionAgents, model.Record{"name": "Bot"})
			if assert.NoError(t, err) {
				ids[i] = rec.ID()
			}
		}(i)
	}
	close(start)
	wg.Wait()

	records := e.List(testTenant, CollectionAgents)
	require.Len(t, records, seeded+writers)

	seen := map[string]bool{}
	for _, rec := range records {
		assert.False(t, seen[rec.ID()])
		seen[rec.ID()] = true
	}
	for _, id := range ids {
		assert.True(t, seen[id], id)
	}
}

func TestTenantIsolation(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	rec, err := e.Create(ctx, "tenant_a", CollectionAgents, model.Record{"name": "A-only"})
	require.NoError(t, err)

	for _, other := range e.List("tenant_b", CollectionAgents) {
		assert.NotEqual(t, rec.ID(), other.ID())
	}
	_, ok := e.Get("tenant_b", CollectionAgents, rec.ID())
	assert.False(t, ok)
}

func TestClearTenant(t *testing.T) {
	substrate := storage.NewMemStore()
	e := NewEngine(substrate, DefaultRegistry(), nil, logger.NewNop())
	ctx := context.Background()

	_, err := e.Create(ctx, "tenant_a", CollectionAgents, model.Record{"name": "A"})
	require.NoError(t, err)
	_, err = e.Create(ctx, "tenant_b", CollectionAgents, model.Record{"name": "B"})
	require.NoError(t, err)

	e.ClearTenant("tenant_a")

	for _, key := range substrate.Keys() {
		assert.False(t, OwnsKey("tenant_a", key))
	}
	// Other tenants are untouched.
	_, ok := substrate.Get(StorageKey("tenant_b", CollectionAgents))
	assert.True(t, ok)

	// After the clear, tenant_a is back to seeded content.
	records := e.List("tenant_a", CollectionAgents)
	for _, rec := range records {
		assert.NotEqual(t, "A", rec["name"])
	}
}

func TestMutationsDispatchChangeEvents(t *testing.T) {
	notifier := &capturingNotifier{}
	e := NewEngine(storage.NewMemStore(), DefaultRegistry(), notifier, logger.NewNop())
	ctx := context.Background()

	rec, err := e.Create(ctx, testTenant, CollectionAgents, model.Record{"name": "Bot"})
	require.NoError(t, err)
	_, err = e.Update(ctx, testTenant, CollectionAgents, rec.ID(), model.Record{"name": "Bot2"})
	require.NoError(t, err)
	require.NoError(t, e.Delete(ctx, testTenant, CollectionAgents, rec.ID()))

	e.Wait()

	events := notifier.captured()
	require.Len(t, events, 3)

	types := map[model.ChangeType]bool{}
	for _, ev := range events {
		types[ev.Type] = true
		assert.Equal(t, testTenant, ev.TenantID)
		assert.Equal(t, CollectionAgents, ev.Collection)
		assert.Equal(t, rec.ID(), ev.RecordID)
	}
	assert.True(t, types[model.ChangeCreated])
	assert.True(t, types[model.ChangeUpdated])
	assert.True(t, types[model.ChangeDeleted])
}

func TestNotifierFailureNeverSurfaces(t *testing.T) {
	notifier := &capturingNotifier{err: errors.New("remote unavailable")}
	e := NewEngine(storage.NewMemStore(), DefaultRegistry(), notifier, logger.NewNop())
	ctx := context.Background()

	rec, err := e.Create(ctx, testTenant, CollectionAgents, model.Record{"name": "Bot"})
	require.NoError(t, err)
	e.Wait()

	// The local write succeeded regardless of the sync failure.
	_, ok := e.Get(testTenant, CollectionAgents, rec.ID())
	assert.True(t, ok)
}

func TestRecordsSurviveJSONRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	input := model.Record{
		"name":   "Bot",
		"tags":   []any{"alpha", "beta"},
		"config": map[string]any{"retries": float64(3), "enabled": true},
		"notes":  nil,
		"volume": 0.8,
	}
	rec, err := e.Create(ctx, testTenant, CollectionAgents, input)
	require.NoError(t, err)

	got, ok := e.Get(testTenant, CollectionAgents, rec.ID())
	require.True(t, ok)
	assert.Equal(t, []any{"alpha", "beta"}, got["tags"])
	assert.Equal(t, map[string]any{"retries": float64(3), "enabled": true}, got["config"])
	assert.Nil(t, got["notes"])
	assert.Equal(t, 0.8, got["volume"])
}

func TestSingularize(t *testing.T) {
	assert.Equal(t, "agent", singularize("agents"))
	assert.Equal(t, "videoSummary", singularize("videoSummaries"))
	assert.Equal(t, "knowledgeBase", singularize("knowledgeBases"))
	assert.Equal(t, "complianceScript", singularize("complianceScripts"))
	assert.Equal(t, "data", singularize("data"))
}

func TestTimestampMonotonicWithClock(t *testing.T) {
	e := newTestEngine(t)
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return base }

	rec, err := e.Create(context.Background(), testTenant, CollectionAgents, model.Record{"name": "Bot"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T12:00:00Z", rec.CreatedAt())

	base = base.Add(time.Minute)
	updated, err := e.Update(context.Background(), testTenant, CollectionAgents, rec.ID(), model.Record{"name": "Bot2"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01T12:01:00Z", updated.UpdatedAt())
}
