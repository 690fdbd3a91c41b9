// Package query implements the chainable query-builder facade over the
// collection store. It mimics a remote relational client: chains are built
// lazily and evaluated on a terminal call, which performs exactly one
// load-modify-save cycle against the same namespaced storage the explicit
// CRUD manager uses.
//
// Unlike the manager, the facade is tenant-implicit: every chain resolves
// the tenant from the current session at terminal-call time. Terminal
// calls return result values rather than errors across the call boundary.
package query

import (
	"context"
	"fmt"
	"sort"

	"github.com/voxboard-ai/dashboard-core/internal/model"
	"github.com/voxboard-ai/dashboard-core/internal/store"
	"github.com/voxboard-ai/dashboard-core/pkg/logger"
)

// SessionSource resolves the active tenant namespace. The authentication
// simulator implements it.
type SessionSource interface {
	CurrentTenantID() string
}

// Client is the entry point of the facade.
type Client struct {
	engine  *store.Engine
	session SessionSource
	logger  *logger.Logger
}

// NewClient creates a facade client over the shared engine.
func NewClient(engine *store.Engine, session SessionSource, log *logger.Logger) *Client {
	return &Client{
		engine:  engine,
		session: session,
		logger:  log,
	}
}

// From starts a chain against a collection. Any collection name is
// accepted; unknown names resolve to initially-empty collections.
func (c *Client) From(table string) *Table {
	return &Table{client: c, name: table}
}

// Table is a chain scoped to one collection.
type Table struct {
	client *Client
	name   string
}

// Select starts a read chain. With no columns (or "*") whole records are
// returned; otherwise results are projected to the named columns.
func (t *Table) Select(columns ...string) *SelectQuery {
	return &SelectQuery{table: t, columns: columns}
}

// Insert starts a write chain for one or more records.
func (t *Table) Insert(records ...model.Record) *InsertQuery {
	return &InsertQuery{table: t, records: records}
}

// Update starts a patch chain. Filters added with Eq select the targets.
func (t *Table) Update(patch model.Record) *UpdateQuery {
	return &UpdateQuery{table: t, patch: patch}
}

// Delete starts a delete chain. Filters added with Eq select the targets.
func (t *Table) Delete() *DeleteQuery {
	return &DeleteQuery{table: t}
}

// Result is the outcome of a multi-record terminal call.
type Result struct {
	Data  []model.Record
	Error error
}

// SingleResult is the outcome of a single-record terminal call.
type SingleResult struct {
	Data  model.Record
	Error error
}

type filter struct {
	column string
	value  any
}

func matches(rec model.Record, filters []filter) bool {
	for _, f := range filters {
		if !valueEquals(rec[f.column], f.value) {
			return false
		}
	}
	return true
}

// valueEquals compares loosely across JSON round-trips, where integers
// come back as float64.
func valueEquals(a, b any) bool {
	if a == b {
		return true
	}
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		return af == bf
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func project(rec model.Record, columns []string) model.Record {
	if len(columns) == 0 {
		return rec
	}
	if len(columns) == 1 && columns[0] == "*" {
		return rec
	}
	out := make(model.Record, len(columns))
	for _, col := range columns {
		if v, ok := rec[col]; ok {
			out[col] = v
		}
	}
	return out
}

// SelectQuery is a lazily-evaluated read chain.
type SelectQuery struct {
	table   *Table
	columns []string
	filters []filter
	orderBy string
	asc     bool
	limit   int
}

// Eq adds an equality filter.
func (q *SelectQuery) Eq(column string, value any) *SelectQuery {
	q.filters = append(q.filters, filter{column: column, value: value})
	return q
}

// Order sorts results by a column. Descending unless ascending is set,
// matching the newest-first convention of the store.
func (q *SelectQuery) Order(column string, ascending bool) *SelectQuery {
	q.orderBy = column
	q.asc = ascending
	return q
}

// Limit caps the number of returned records.
func (q *SelectQuery) Limit(n int) *SelectQuery {
	q.limit = n
	return q
}

// Execute evaluates the chain and returns all matching records.
func (q *SelectQuery) Execute(ctx context.Context) Result {
	c := q.table.client
	tenantID := c.session.CurrentTenantID()

	records := c.engine.List(tenantID, q.table.name)

	var out []model.Record
	for _, rec := range records {
		if matches(rec, q.filters) {
			out = append(out, rec)
		}
	}

	if q.orderBy != "" {
		col := q.orderBy
		asc := q.asc
		sort.SliceStable(out, func(i, j int) bool {
			less := fmt.Sprint(out[i][col]) < fmt.Sprint(out[j][col])
			if af, aok := asFloat(out[i][col]); aok {
				if bf, bok := asFloat(out[j][col]); bok {
					less = af < bf
				}
			}
			if asc {
				return less
			}
			return !less
		})
	}

	if q.limit > 0 && len(out) > q.limit {
		out = out[:q.limit]
	}

	projected := make([]model.Record, len(out))
	for i, rec := range out {
		projected[i] = project(rec, q.columns)
	}
	return Result{Data: projected}
}

// Single evaluates the chain expecting exactly one match.
func (q *SelectQuery) Single(ctx context.Context) SingleResult {
	res := q.Execute(ctx)
	if res.Error != nil {
		return SingleResult{Error: res.Error}
	}
	if len(res.Data) == 0 {
		return SingleResult{Error: &store.NotFoundError{Collection: q.table.name, ID: filterID(q.filters)}}
	}
	return SingleResult{Data: res.Data[0]}
}

// InsertQuery is a lazily-evaluated insert chain.
type InsertQuery struct {
	table   *Table
	records []model.Record
	// returning mirrors the remote client's .select() after insert; the
	// local store always has the rows at hand, so it only gates output.
	returning bool
}

// Select marks the chain to return the inserted records.
func (q *InsertQuery) Select(columns ...string) *InsertQuery {
	q.returning = true
	return q
}

// Execute inserts all records through the shared engine.
func (q *InsertQuery) Execute(ctx context.Context) Result {
	c := q.table.client
	tenantID := c.session.CurrentTenantID()

	var inserted []model.Record
	for _, rec := range q.records {
		created, err := c.engine.Create(ctx, tenantID, q.table.name, rec)
		if err != nil {
			return Result{Data: inserted, Error: err}
		}
		inserted = append(inserted, created)
	}
	if !q.returning {
		return Result{}
	}
	return Result{Data: inserted}
}

// Single inserts and returns the first inserted record.
func (q *InsertQuery) Single(ctx context.Context) SingleResult {
	q.returning = true
	res := q.Execute(ctx)
	if res.Error != nil {
		return SingleResult{Error: res.Error}
	}
	if len(res.Data) == 0 {
		return SingleResult{Error: &store.NotFoundError{Collection: q.table.name}}
	}
	return SingleResult{Data: res.Data[0]}
}

// UpdateQuery is a lazily-evaluated patch chain.
type UpdateQuery struct {
	table     *Table
	patch     model.Record
	filters   []filter
	returning bool
}

// Eq adds an equality filter selecting the records to patch.
func (q *UpdateQuery) Eq(column string, value any) *UpdateQuery {
	q.filters = append(q.filters, filter{column: column, value: value})
	return q
}

// Select marks the chain to return the updated records.
func (q *UpdateQuery) Select(columns ...string) *UpdateQuery {
	q.returning = true
	return q
}

// Execute patches every matching record through the shared engine.
func (q *UpdateQuery) Execute(ctx context.Context) Result {
	c := q.table.client
	tenantID := c.session.CurrentTenantID()

	var ids []string
	for _, rec := range c.engine.List(tenantID, q.table.name) {
		if matches(rec, q.filters) {
			ids = append(ids, rec.ID())
		}
	}
	if len(ids) == 0 {
		return Result{Error: &store.NotFoundError{Collection: q.table.name, ID: filterID(q.filters)}}
	}

	var updated []model.Record
	for _, id := range ids {
		rec, err := c.engine.Update(ctx, tenantID, q.table.name, id, q.patch)
		if err != nil {
			return Result{Data: updated, Error: err}
		}
		updated = append(updated, rec)
	}
	if !q.returning {
		return Result{}
	}
	return Result{Data: updated}
}

// Single patches and returns the first updated record.
func (q *UpdateQuery) Single(ctx context.Context) SingleResult {
	q.returning = true
	res := q.Execute(ctx)
	if res.Error != nil {
		return SingleResult{Error: res.Error}
	}
	if len(res.Data) == 0 {
		return SingleResult{Error: &store.NotFoundError{Collection: q.table.name, ID: filterID(q.filters)}}
	}
	return SingleResult{Data: res.Data[0]}
}

// DeleteQuery is a lazily-evaluated delete chain.
type DeleteQuery struct {
	table   *Table
	filters []filter
}

// Eq adds an equality filter selecting the records to delete.
func (q *DeleteQuery) Eq(column string, value any) *DeleteQuery {
	q.filters = append(q.filters, filter{column: column, value: value})
	return q
}

// Execute deletes every matching record. Deleting nothing is not an error,
// matching the idempotent delete of the CRUD manager.
func (q *DeleteQuery) Execute(ctx context.Context) Result {
	c := q.table.client
	tenantID := c.session.CurrentTenantID()

	var ids []string
	for _, rec := range c.engine.List(tenantID, q.table.name) {
		if matches(rec, q.filters) {
			ids = append(ids, rec.ID())
		}
	}
	for _, id := range ids {
		if err := c.engine.Delete(ctx, tenantID, q.table.name, id); err != nil {
			return Result{Error: err}
		}
	}
	return Result{}
}

func filterID(filters []filter) string {
	for _, f := range filters {
		if f.column == model.FieldID {
			return fmt.Sprint(f.value)
		}
	}
	return ""
}
