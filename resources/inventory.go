package resources

import (
	"context"
	"encoding/json"
)

// ItemFilter narrows an inventory item list.
type ItemFilter struct {
	CategoryID string
	Status     string
	Page
}

// Inventory covers stock categories and items.
type Inventory struct{ base }

func (i *Inventory) Categories(ctx context.Context) (json.RawMessage, error) {
	return i.get(ctx, "/inventory/categories", nil)
}

func (i *Inventory) CreateCategory(ctx context.Context, data any) (json.RawMessage, error) {
	return i.post(ctx, "/inventory/categories", data)
}

func (i *Inventory) Items(ctx context.Context, f ItemFilter) (json.RawMessage, error) {
	pairs := []string{"categoryId", f.CategoryID, "status", f.Status}
	return i.get(ctx, "/inventory/items", query(append(pairs, f.Page.pairs()...)...))
}

func (i *Inventory) Item(ctx context.Context, id string) (json.RawMessage, error) {
	return i.get(ctx, endpoint("/inventory/items", id), nil)
}

func (i *Inventory) CreateItem(ctx context.Context, data any) (json.RawMessage, error) {
	return i.post(ctx, "/inventory/items", data)
}

func (i *Inventory) UpdateItem(ctx context.Context, id string, data any) (json.RawMessage, error) {
	return i.put(ctx, endpoint("/inventory/items", id), data)
}

// Adjust records a stock movement, e.g. {"type":"add","quantity":5,"reason":"restock"}.
func (i *Inventory) Adjust(ctx context.Context, id string, adjustment any) (json.RawMessage, error) {
	return i.post(ctx, endpoint("/inventory/items", id)+"/adjust", adjustment)
}

func (i *Inventory) DeleteItem(ctx context.Context, id string) (json.RawMessage, error) {
	return i.delete(ctx, endpoint("/inventory/items", id))
}
