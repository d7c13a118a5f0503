package resources

import (
	"context"
	"encoding/json"
)

type Expenses struct{ base }

func (e *Expenses) List(ctx context.Context, params Params) (json.RawMessage, error) {
	return e.get(ctx, "/expenses", params.values())
}

func (e *Expenses) Stats(ctx context.Context, startDate, endDate string) (json.RawMessage, error) {
	return e.get(ctx, "/expenses/stats", query("startDate", startDate, "endDate", endDate))
}

func (e *Expenses) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return e.get(ctx, endpoint("/expenses", id), nil)
}

func (e *Expenses) Create(ctx context.Context, data any) (json.RawMessage, error) {
	return e.post(ctx, "/expenses", data)
}

func (e *Expenses) Update(ctx context.Context, id string, data any) (json.RawMessage, error) {
	return e.put(ctx, endpoint("/expenses", id), data)
}

func (e *Expenses) Delete(ctx context.Context, id string) (json.RawMessage, error) {
	return e.delete(ctx, endpoint("/expenses", id))
}

// BulkDelete removes several expenses in one call.
func (e *Expenses) BulkDelete(ctx context.Context, ids []string) (json.RawMessage, error) {
	if ids == nil {
		ids = []string{}
	}
	return e.post(ctx, "/expenses/bulk-delete", map[string][]string{"ids": ids})
}
