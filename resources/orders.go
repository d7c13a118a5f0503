package resources

import (
	"context"
	"encoding/json"
)

// OrderFilter narrows an order or purchase order list.
type OrderFilter struct {
	Status        string
	PaymentStatus string
	ClientID      string
	Page
}

type Orders struct{ base }

func (o *Orders) List(ctx context.Context, f OrderFilter) (json.RawMessage, error) {
	pairs := []string{"status", f.Status, "paymentStatus", f.PaymentStatus, "clientId", f.ClientID}
	return o.get(ctx, "/orders", query(append(pairs, f.Page.pairs()...)...))
}

func (o *Orders) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return o.get(ctx, endpoint("/orders", id), nil)
}

func (o *Orders) Create(ctx context.Context, data any) (json.RawMessage, error) {
	return o.post(ctx, "/orders", data)
}

func (o *Orders) UpdateStatus(ctx context.Context, id, status string) (json.RawMessage, error) {
	return o.patch(ctx, endpoint("/orders", id)+"/status", map[string]string{"status": status})
}

func (o *Orders) RecordPayment(ctx context.Context, id string, payment any) (json.RawMessage, error) {
	return o.post(ctx, endpoint("/orders", id)+"/payment", payment)
}

func (o *Orders) Delete(ctx context.Context, id string) (json.RawMessage, error) {
	return o.delete(ctx, endpoint("/orders", id))
}

// PurchaseOrderFilter narrows a purchase order list.
type PurchaseOrderFilter struct {
	Status         string
	DeliveryStatus string
	ClientID       string
	Page
}

type PurchaseOrders struct{ base }

func (p *PurchaseOrders) List(ctx context.Context, f PurchaseOrderFilter) (json.RawMessage, error) {
	pairs := []string{"status", f.Status, "deliveryStatus", f.DeliveryStatus, "clientId", f.ClientID}
	return p.get(ctx, "/purchase-orders", query(append(pairs, f.Page.pairs()...)...))
}

func (p *PurchaseOrders) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return p.get(ctx, endpoint("/purchase-orders", id), nil)
}

func (p *PurchaseOrders) Create(ctx context.Context, data any) (json.RawMessage, error) {
	return p.post(ctx, "/purchase-orders", data)
}

func (p *PurchaseOrders) UpdateDeliveryStatus(ctx context.Context, id, deliveryStatus string) (json.RawMessage, error) {
	return p.patch(ctx, endpoint("/purchase-orders", id)+"/delivery-status", map[string]string{"deliveryStatus": deliveryStatus})
}

func (p *PurchaseOrders) RecordPayment(ctx context.Context, id string, payment any) (json.RawMessage, error) {
	return p.post(ctx, endpoint("/purchase-orders", id)+"/payment", payment)
}

// SendReminder asks the backend to message the client about the purchase order.
func (p *PurchaseOrders) SendReminder(ctx context.Context, id string) (json.RawMessage, error) {
	return p.post(ctx, endpoint("/purchase-orders", id)+"/send-reminder", nil)
}

func (p *PurchaseOrders) Delete(ctx context.Context, id string) (json.RawMessage, error) {
	return p.delete(ctx, endpoint("/purchase-orders", id))
}
