// Package resources exposes the backend's domain endpoints as thin,
// stateless namespaces over the shared authenticated client. Methods return
// the backend's JSON payload as is.
package resources

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jrsteele09/sewtrack/apiclient"
	"github.com/pkg/errors"
)

const (
	defaultPage  = 1
	defaultLimit = 20
)

// Doer sends a request through the authenticated client.
type Doer interface {
	Do(ctx context.Context, req apiclient.Request) (*apiclient.Response, error)
}

var _ Doer = (*apiclient.Client)(nil)

// Resources groups every namespace. All share one client and so one session.
type Resources struct {
	Clients        *Clients
	Attires        *Attires
	Measurements   *Measurements
	Orders         *Orders
	Inventory      *Inventory
	PurchaseOrders *PurchaseOrders
	Dashboard      *Dashboard
	Uploads        *Uploads
	WhatsApp       *WhatsApp
	Invoices       *Invoices
	Appointments   *Appointments
	Expenses       *Expenses
	Staff          *Staff
	Reports        *Reports
	Messages       *Messages
	Bulk           *Bulk
}

// New binds every namespace to client.
func New(client Doer) (*Resources, error) {
	if client == nil {
		return nil, errors.New("[resources New] client is required")
	}
	b := base{client: client}
	r := &Resources{
		Clients:        &Clients{b},
		Attires:        &Attires{b},
		Measurements:   &Measurements{b},
		Orders:         &Orders{b},
		Inventory:      &Inventory{b},
		PurchaseOrders: &PurchaseOrders{b},
		Dashboard:      &Dashboard{b},
		Uploads:        &Uploads{b},
		WhatsApp:       &WhatsApp{b},
		Invoices:       &Invoices{b},
		Appointments:   &Appointments{b},
		Expenses:       &Expenses{b},
		Staff:          &Staff{b},
		Reports:        &Reports{b},
		Messages:       &Messages{b},
	}
	r.Bulk = &Bulk{clients: r.Clients, orders: r.Orders, inventory: r.Inventory}
	return r, nil
}

type base struct {
	client Doer
}

func (b base) send(ctx context.Context, req apiclient.Request) (json.RawMessage, error) {
	resp, err := b.client.Do(ctx, req)
	if err != nil {
		return nil, errors.Wrapf(err, "[resources] %s %s", req.Method, req.Path)
	}
	return resp.JSON(), nil
}

func (b base) get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return b.send(ctx, apiclient.Request{Method: http.MethodGet, Path: path, Query: query})
}

func (b base) post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return b.send(ctx, apiclient.Request{Method: http.MethodPost, Path: path, Body: body})
}

func (b base) put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return b.send(ctx, apiclient.Request{Method: http.MethodPut, Path: path, Body: body})
}

func (b base) patch(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return b.send(ctx, apiclient.Request{Method: http.MethodPatch, Path: path, Body: body})
}

func (b base) delete(ctx context.Context, path string) (json.RawMessage, error) {
	return b.send(ctx, apiclient.Request{Method: http.MethodDelete, Path: path})
}

// endpoint joins escaped segments after a prefix, e.g. endpoint("/clients", id).
func endpoint(prefix string, segments ...string) string {
	p := prefix
	for _, s := range segments {
		p += "/" + url.PathEscape(s)
	}
	return p
}

// Params is a set of optional query parameters. Empty values are dropped.
type Params map[string]string

func (p Params) values() url.Values {
	v := url.Values{}
	for k, val := range p {
		if val != "" {
			v.Set(k, val)
		}
	}
	return v
}

// query builds query values from key/value pairs, skipping empty values.
func query(kv ...string) url.Values {
	if len(kv)%2 != 0 {
		panic(fmt.Sprintf("resources: odd query argument count %d", len(kv)))
	}
	v := url.Values{}
	for i := 0; i < len(kv); i += 2 {
		if kv[i+1] != "" {
			v.Set(kv[i], kv[i+1])
		}
	}
	return v
}

// Page selects a page of a list. Zero values take the backend's defaults
// (page 1, 20 per page).
type Page struct {
	Page  int
	Limit int
}

func (p Page) pairs() []string {
	page, limit := p.Page, p.Limit
	if page <= 0 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	return []string{"page", strconv.Itoa(page), "limit", strconv.Itoa(limit)}
}

func boolParam(b *bool) string {
	if b == nil {
		return ""
	}
	return strconv.FormatBool(*b)
}
