package resources

import (
	"context"
	"encoding/json"
)

type Dashboard struct{ base }

func (d *Dashboard) Overview(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, "/dashboard/overview", nil)
}

// Revenue reports revenue between two dates (YYYY-MM-DD). reportType is the
// grouping the backend understands, e.g. "daily" or "monthly".
func (d *Dashboard) Revenue(ctx context.Context, startDate, endDate, reportType string) (json.RawMessage, error) {
	return d.get(ctx, "/dashboard/report/revenue", query("startDate", startDate, "endDate", endDate, "type", reportType))
}

func (d *Dashboard) TopAttires(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, "/dashboard/report/top-attires", nil)
}

func (d *Dashboard) TopInventory(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, "/dashboard/report/top-inventory", nil)
}

func (d *Dashboard) LowStock(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, "/dashboard/report/low-stock", nil)
}

func (d *Dashboard) PendingPayments(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, "/dashboard/report/pending-payments", nil)
}

func (d *Dashboard) ClientStats(ctx context.Context) (json.RawMessage, error) {
	return d.get(ctx, "/dashboard/report/clients", nil)
}

type Reports struct{ base }

// Orders summarises orders over period, e.g. "week", "month" or "year".
func (r *Reports) Orders(ctx context.Context, period string) (json.RawMessage, error) {
	return r.get(ctx, "/reports/orders", query("period", period))
}

func (r *Reports) PurchaseOrders(ctx context.Context, period string) (json.RawMessage, error) {
	return r.get(ctx, "/reports/pos", query("period", period))
}
