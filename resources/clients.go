package resources

import (
	"context"
	"encoding/json"
)

// ClientFilter narrows a client list. Status defaults to "active".
type ClientFilter struct {
	Status string
	Search string
	Page
}

// Clients is the tailor's customer book.
type Clients struct{ base }

func (c *Clients) List(ctx context.Context, f ClientFilter) (json.RawMessage, error) {
	status := f.Status
	if status == "" {
		status = "active"
	}
	return c.get(ctx, "/clients", query(append([]string{"status", status, "search", f.Search}, f.Page.pairs()...)...))
}

func (c *Clients) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return c.get(ctx, endpoint("/clients", id), nil)
}

func (c *Clients) Create(ctx context.Context, data any) (json.RawMessage, error) {
	return c.post(ctx, "/clients", data)
}

func (c *Clients) Update(ctx context.Context, id string, data any) (json.RawMessage, error) {
	return c.put(ctx, endpoint("/clients", id), data)
}

func (c *Clients) Delete(ctx context.Context, id string) (json.RawMessage, error) {
	return c.delete(ctx, endpoint("/clients", id))
}

// Attires are the garment types measurements are taken for.
type Attires struct{ base }

// List filters by gender and, when isActive is non-nil, by active flag.
func (a *Attires) List(ctx context.Context, gender string, isActive *bool) (json.RawMessage, error) {
	return a.get(ctx, "/attires", query("gender", gender, "isActive", boolParam(isActive)))
}

func (a *Attires) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return a.get(ctx, endpoint("/attires", id), nil)
}

func (a *Attires) Create(ctx context.Context, data any) (json.RawMessage, error) {
	return a.post(ctx, "/attires", data)
}

func (a *Attires) Update(ctx context.Context, id string, data any) (json.RawMessage, error) {
	return a.put(ctx, endpoint("/attires", id), data)
}

func (a *Attires) Delete(ctx context.Context, id string) (json.RawMessage, error) {
	return a.delete(ctx, endpoint("/attires", id))
}

type Measurements struct{ base }

func (m *Measurements) ByClient(ctx context.Context, clientID string) (json.RawMessage, error) {
	return m.get(ctx, endpoint("/measurements/client", clientID), nil)
}

func (m *Measurements) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return m.get(ctx, endpoint("/measurements", id), nil)
}

func (m *Measurements) Create(ctx context.Context, data any) (json.RawMessage, error) {
	return m.post(ctx, "/measurements", data)
}

func (m *Measurements) Update(ctx context.Context, id string, data any) (json.RawMessage, error) {
	return m.put(ctx, endpoint("/measurements", id), data)
}

// CopyToAttire duplicates a measurement set onto another attire type.
func (m *Measurements) CopyToAttire(ctx context.Context, id, targetAttireTypeID string) (json.RawMessage, error) {
	return m.post(ctx, endpoint("/measurements", id)+"/copy-to-attire", map[string]string{"targetAttireTypeId": targetAttireTypeID})
}

func (m *Measurements) ToggleFavorite(ctx context.Context, id string) (json.RawMessage, error) {
	return m.patch(ctx, endpoint("/measurements", id)+"/favorite", nil)
}

func (m *Measurements) Delete(ctx context.Context, id string) (json.RawMessage, error) {
	return m.delete(ctx, endpoint("/measurements", id))
}
