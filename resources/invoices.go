package resources

import (
	"context"
	"encoding/json"
	"mime"
	"net/http"

	"github.com/jrsteele09/sewtrack/apiclient"
	"github.com/pkg/errors"
)

// InvoiceFilter narrows an invoice list.
type InvoiceFilter struct {
	Type     string
	Status   string
	ClientID string
}

// Document is a binary download.
type Document struct {
	ContentType string
	Filename    string
	Data        []byte
}

type Invoices struct{ base }

func (i *Invoices) List(ctx context.Context, f InvoiceFilter) (json.RawMessage, error) {
	return i.get(ctx, "/invoices", query("type", f.Type, "status", f.Status, "clientId", f.ClientID))
}

func (i *Invoices) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return i.get(ctx, endpoint("/invoices", id), nil)
}

// FromOrder creates an invoice prefilled from an order.
func (i *Invoices) FromOrder(ctx context.Context, orderID string, data any) (json.RawMessage, error) {
	return i.post(ctx, endpoint("/invoices/from-order", orderID), data)
}

func (i *Invoices) Create(ctx context.Context, data any) (json.RawMessage, error) {
	return i.post(ctx, "/invoices", data)
}

func (i *Invoices) Update(ctx context.Context, id string, data any) (json.RawMessage, error) {
	return i.put(ctx, endpoint("/invoices", id), data)
}

func (i *Invoices) Delete(ctx context.Context, id string) (json.RawMessage, error) {
	return i.delete(ctx, endpoint("/invoices", id))
}

func (i *Invoices) Preview(ctx context.Context, id string) (json.RawMessage, error) {
	return i.get(ctx, endpoint("/invoices", id)+"/preview", nil)
}

// Download fetches the rendered invoice (usually a PDF).
func (i *Invoices) Download(ctx context.Context, id string) (*Document, error) {
	p := endpoint("/invoices", id) + "/download"
	resp, err := i.client.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: p})
	if err != nil {
		return nil, errors.Wrapf(err, "[Invoices.Download] %s", p)
	}

	doc := &Document{
		ContentType: resp.Header.Get("Content-Type"),
		Data:        resp.Body,
	}
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		doc.Filename = params["filename"]
	}
	if doc.Filename == "" {
		doc.Filename = "invoice-" + id + ".pdf"
	}
	return doc, nil
}
