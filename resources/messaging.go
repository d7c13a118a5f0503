package resources

import (
	"context"
	"encoding/json"
)

// WhatsApp sends notifications through the backend's WhatsApp integration.
type WhatsApp struct{ base }

func (w *WhatsApp) Status(ctx context.Context) (json.RawMessage, error) {
	return w.get(ctx, "/whatsapp/status", nil)
}

func (w *WhatsApp) OrderCompleted(ctx context.Context, orderID string) (json.RawMessage, error) {
	return w.post(ctx, endpoint("/whatsapp/notify/order-completed", orderID), nil)
}

func (w *WhatsApp) OrderDelivered(ctx context.Context, orderID string) (json.RawMessage, error) {
	return w.post(ctx, endpoint("/whatsapp/notify/order-delivered", orderID), nil)
}

func (w *WhatsApp) PaymentReminder(ctx context.Context, orderID string) (json.RawMessage, error) {
	return w.post(ctx, endpoint("/whatsapp/notify/payment-reminder", orderID), nil)
}

func (w *WhatsApp) Custom(ctx context.Context, clientID, message string) (json.RawMessage, error) {
	return w.post(ctx, endpoint("/whatsapp/send", clientID), map[string]string{"message": message})
}

// Messages is the per-client conversation inbox.
type Messages struct{ base }

func (m *Messages) Conversations(ctx context.Context) (json.RawMessage, error) {
	return m.get(ctx, "/messages/conversations", nil)
}

func (m *Messages) ByClient(ctx context.Context, clientID string) (json.RawMessage, error) {
	return m.get(ctx, endpoint("/messages/client", clientID), nil)
}

func (m *Messages) Send(ctx context.Context, clientID, message string) (json.RawMessage, error) {
	return m.post(ctx, "/messages/send", map[string]string{"clientId": clientID, "message": message})
}

func (m *Messages) MarkRead(ctx context.Context, clientID string) (json.RawMessage, error) {
	return m.post(ctx, endpoint("/messages/mark-read", clientID), nil)
}

func (m *Messages) UnreadCount(ctx context.Context) (json.RawMessage, error) {
	return m.get(ctx, "/messages/unread-count", nil)
}

func (m *Messages) DeleteConversation(ctx context.Context, clientID string) (json.RawMessage, error) {
	return m.delete(ctx, endpoint("/messages/conversation", clientID))
}
