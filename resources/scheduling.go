package resources

import (
	"context"
	"encoding/json"
)

type Appointments struct{ base }

// List passes params through as query parameters, e.g. {"status":"scheduled"}.
func (a *Appointments) List(ctx context.Context, params Params) (json.RawMessage, error) {
	return a.get(ctx, "/appointments", params.values())
}

// ByDate lists the appointments on date (YYYY-MM-DD).
func (a *Appointments) ByDate(ctx context.Context, date string) (json.RawMessage, error) {
	return a.get(ctx, endpoint("/appointments/date", date), nil)
}

func (a *Appointments) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return a.get(ctx, endpoint("/appointments", id), nil)
}

func (a *Appointments) Create(ctx context.Context, data any) (json.RawMessage, error) {
	return a.post(ctx, "/appointments", data)
}

func (a *Appointments) Update(ctx context.Context, id string, data any) (json.RawMessage, error) {
	return a.put(ctx, endpoint("/appointments", id), data)
}

func (a *Appointments) Cancel(ctx context.Context, id, reason string) (json.RawMessage, error) {
	return a.post(ctx, endpoint("/appointments", id)+"/cancel", map[string]string{"reason": reason})
}

func (a *Appointments) Complete(ctx context.Context, id string) (json.RawMessage, error) {
	return a.post(ctx, endpoint("/appointments", id)+"/complete", nil)
}

func (a *Appointments) SendReminder(ctx context.Context, id string) (json.RawMessage, error) {
	return a.post(ctx, endpoint("/appointments", id)+"/send-reminder", nil)
}

func (a *Appointments) Delete(ctx context.Context, id string) (json.RawMessage, error) {
	return a.delete(ctx, endpoint("/appointments", id))
}

// Staff are the shop's employees; orders can be assigned to them.
type Staff struct{ base }

func (s *Staff) List(ctx context.Context) (json.RawMessage, error) {
	return s.get(ctx, "/staff", nil)
}

func (s *Staff) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return s.get(ctx, endpoint("/staff", id), nil)
}

func (s *Staff) Create(ctx context.Context, data any) (json.RawMessage, error) {
	return s.post(ctx, "/staff", data)
}

func (s *Staff) Update(ctx context.Context, id string, data any) (json.RawMessage, error) {
	return s.put(ctx, endpoint("/staff", id), data)
}

func (s *Staff) Delete(ctx context.Context, id string) (json.RawMessage, error) {
	return s.delete(ctx, endpoint("/staff", id))
}

func (s *Staff) AssignOrder(ctx context.Context, id, orderID string) (json.RawMessage, error) {
	return s.post(ctx, endpoint("/staff", id)+"/assign-order", map[string]string{"orderId": orderID})
}

func (s *Staff) RemoveOrder(ctx context.Context, id, orderID string) (json.RawMessage, error) {
	return s.post(ctx, endpoint("/staff", id)+"/remove-order", map[string]string{"orderId": orderID})
}
