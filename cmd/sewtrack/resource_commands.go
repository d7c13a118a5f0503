package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/jrsteele09/sewtrack/apiclient"
	"github.com/jrsteele09/sewtrack/navigation"
	"github.com/jrsteele09/sewtrack/resources"
	"github.com/spf13/cobra"
)

type fetchFunc func(ctx context.Context, a *app, args []string) (json.RawMessage, error)

// leaf builds a command that prints the JSON payload returned by fetch.
func leaf(current func() *app, use, short string, args cobra.PositionalArgs, fetch fetchFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			out, err := fetch(cmd.Context(), a, args)
			if err != nil {
				return err
			}
			return a.out.Raw(out)
		},
	}
}

type bulkFunc func(ctx context.Context, a *app, ids []string) (resources.BulkResult, error)

// bulkLeaf builds a command that applies run to every id argument and prints
// the tally. Any failed id makes the command fail.
func bulkLeaf(current func() *app, use, short string, run bulkFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			result, err := run(cmd.Context(), a, args)
			if printErr := a.out.Value(result); printErr != nil {
				return printErr
			}
			if err != nil {
				return err
			}
			if result.Failed > 0 {
				return fmt.Errorf("%d of %d failed", result.Failed, len(args))
			}
			return nil
		},
	}
}

func group(use, short string, route navigation.Route, children ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:         use,
		Short:       short,
		Annotations: routed(string(route)),
	}
	cmd.AddCommand(children...)
	return cmd
}

// payload collects a request body from --data (a JSON document) and --set
// (key=value pairs, applied on top).
type payload struct {
	data string
	set  []string
}

func (p *payload) register(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().StringVar(&p.data, "data", "", "Request body as JSON")
	cmd.Flags().StringArrayVar(&p.set, "set", nil, "Field assignment key=value (string) or key:=json, repeatable")
	return cmd
}

func (p *payload) body() (map[string]any, error) {
	body := map[string]any{}
	if p.data != "" {
		if err := json.Unmarshal([]byte(p.data), &body); err != nil {
			return nil, fmt.Errorf("--data is not a JSON object: %w", err)
		}
	}
	fields, err := parseAssignments(p.set)
	if err != nil {
		return nil, err
	}
	for k, v := range fields {
		body[k] = v
	}
	return body, nil
}

// parseAssignments reads key=value pairs as strings and key:=json pairs as
// typed JSON values. Numbers keep their exact digits.
func parseAssignments(pairs []string) (map[string]any, error) {
	fields := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" || key == ":" {
			return nil, fmt.Errorf("invalid assignment %q, expected key=value or key:=json", pair)
		}
		typed, isTyped := strings.CutSuffix(key, ":")
		if !isTyped {
			fields[key] = value
			continue
		}

		dec := json.NewDecoder(strings.NewReader(value))
		dec.UseNumber()
		var decoded any
		if err := dec.Decode(&decoded); err != nil {
			return nil, fmt.Errorf("invalid JSON for %q: %w", typed, err)
		}
		if dec.More() {
			return nil, fmt.Errorf("invalid JSON for %q: trailing data", typed)
		}
		fields[typed] = decoded
	}
	return fields, nil
}

func newResourceCommands(current func() *app) []*cobra.Command {
	return []*cobra.Command{
		newClientsCommand(current),
		newOrdersCommand(current),
		newInventoryCommand(current),
		newDashboardCommand(current),
		newMessagesCommand(current),
		newExpensesCommand(current),
		newInvoicesCommand(current),
		newUploadCommand(current),
		newRawCommand(current),
	}
}

func newClientsCommand(current func() *app) *cobra.Command {
	var filter resources.ClientFilter
	list := leaf(current, "list", "List clients", cobra.NoArgs, func(ctx context.Context, a *app, _ []string) (json.RawMessage, error) {
		return a.resources.Clients.List(ctx, filter)
	})
	list.Flags().StringVar(&filter.Status, "status", "active", "Client status")
	list.Flags().StringVar(&filter.Search, "search", "", "Search text")
	list.Flags().IntVar(&filter.Page.Page, "page", 1, "Page number")
	list.Flags().IntVar(&filter.Limit, "limit", 20, "Page size")

	var create, update payload
	return group("clients", "Manage clients", navigation.RouteClients,
		list,
		leaf(current, "get ID", "Show a client", cobra.ExactArgs(1), func(ctx context.Context, a *app, args []string) (json.RawMessage, error) {
			return a.resources.Clients.Get(ctx, args[0])
		}),
		create.register(leaf(current, "create", "Create a client", cobra.NoArgs, func(ctx context.Context, a *app, _ []string) (json.RawMessage, error) {
			body, err := create.body()
			if err != nil {
				return nil, err
			}
			return a.resources.Clients.Create(ctx, body)
		})),
		update.register(leaf(current, "update ID", "Update a client", cobra.ExactArgs(1), func(ctx context.Context, a *app, args []string) (json.RawMessage, error) {
			body, err := update.body()
			if err != nil {
				return nil, err
			}
			return a.resources.Clients.Update(ctx, args[0], body)
		})),
		bulkLeaf(current, "delete ID...", "Delete one or more clients", func(ctx context.Context, a *app, ids []string) (resources.BulkResult, error) {
			return a.resources.Bulk.DeleteClients(ctx, ids)
		}),
	)
}

func newOrdersCommand(current func() *app) *cobra.Command {
	var filter resources.OrderFilter
	list := leaf(current, "list", "List orders", cobra.NoArgs, func(ctx context.Context, a *app, _ []string) (json.RawMessage, error) {
		return a.resources.Orders.List(ctx, filter)
	})
	list.Flags().StringVar(&filter.Status, "status", "", "Order status")
	list.Flags().StringVar(&filter.PaymentStatus, "payment-status", "", "Payment status")
	list.Flags().StringVar(&filter.ClientID, "client", "", "Client ID")
	list.Flags().IntVar(&filter.Page.Page, "page", 1, "Page number")
	list.Flags().IntVar(&filter.Limit, "limit", 20, "Page size")

	return group("orders", "Manage orders", navigation.RouteOrders,
		list,
		leaf(current, "get ID", "Show an order", cobra.ExactArgs(1), func(ctx context.Context, a *app, args []string) (json.RawMessage, error) {
			return a.resources.Orders.Get(ctx, args[0])
		}),
		leaf(current, "status ID STATUS", "Change an order's status", cobra.ExactArgs(2), func(ctx context.Context, a *app, args []string) (json.RawMessage, error) {
			return a.resources.Orders.UpdateStatus(ctx, args[0], args[1])
		}),
		bulkLeaf(current, "delete ID...", "Delete one or more orders", func(ctx context.Context, a *app, ids []string) (resources.BulkResult, error) {
			return a.resources.Bulk.DeleteOrders(ctx, ids)
		}),
	)
}

func newInventoryCommand(current func() *app) *cobra.Command {
	var filter resources.ItemFilter
	items := leaf(current, "items", "List inventory items", cobra.NoArgs, func(ctx context.Context, a *app, _ []string) (json.RawMessage, error) {
		return a.resources.Inventory.Items(ctx, filter)
	})
	items.Flags().StringVar(&filter.CategoryID, "category", "", "Category ID")
	items.Flags().StringVar(&filter.Status, "status", "", "Item status")
	items.Flags().IntVar(&filter.Page.Page, "page", 1, "Page number")
	items.Flags().IntVar(&filter.Limit, "limit", 20, "Page size")

	var adjust payload
	return group("inventory", "Inspect and adjust stock", navigation.RouteInventory,
		leaf(current, "categories", "List inventory categories", cobra.NoArgs, func(ctx context.Context, a *app, _ []string) (json.RawMessage, error) {
			return a.resources.Inventory.Categories(ctx)
		}),
		items,
		adjust.register(leaf(current, "adjust ID", "Record a stock movement, e.g. --set type=add --set quantity:=5", cobra.ExactArgs(1),
			func(ctx context.Context, a *app, args []string) (json.RawMessage, error) {
				body, err := adjust.body()
				if err != nil {
					return nil, err
				}
				return a.resources.Inventory.Adjust(ctx, args[0], body)
			})),
	)
}

func newDashboardCommand(current func() *app) *cobra.Command {
	return group("dashboard", "Business overview", navigation.RouteDashboard,
		leaf(current, "overview", "Headline figures", cobra.NoArgs, func(ctx context.Context, a *app, _ []string) (json.RawMessage, error) {
			return a.resources.Dashboard.Overview(ctx)
		}),
		leaf(current, "low-stock", "Items below their reorder level", cobra.NoArgs, func(ctx context.Context, a *app, _ []string) (json.RawMessage, error) {
			return a.resources.Dashboard.LowStock(ctx)
		}),
		leaf(current, "pending-payments", "Orders with outstanding balances", cobra.NoArgs, func(ctx context.Context, a *app, _ []string) (json.RawMessage, error) {
			return a.resources.Dashboard.PendingPayments(ctx)
		}),
	)
}

func newMessagesCommand(current func() *app) *cobra.Command {
	return group("messages", "Client conversations", navigation.RouteMessages,
		leaf(current, "conversations", "List conversations", cobra.NoArgs, func(ctx context.Context, a *app, _ []string) (json.RawMessage, error) {
			return a.resources.Messages.Conversations(ctx)
		}),
		leaf(current, "send CLIENT_ID MESSAGE", "Send a message to a client", cobra.ExactArgs(2), func(ctx context.Context, a *app, args []string) (json.RawMessage, error) {
			return a.resources.Messages.Send(ctx, args[0], args[1])
		}),
		leaf(current, "unread", "Count unread messages", cobra.NoArgs, func(ctx context.Context, a *app, _ []string) (json.RawMessage, error) {
			return a.resources.Messages.UnreadCount(ctx)
		}),
	)
}

func newExpensesCommand(current func() *app) *cobra.Command {
	var params []string
	list := leaf(current, "list", "List expenses", cobra.NoArgs, func(ctx context.Context, a *app, _ []string) (json.RawMessage, error) {
		p := resources.Params{}
		for _, pair := range params {
			k, v, ok := strings.Cut(pair, "=")
			if !ok {
				return nil, fmt.Errorf("invalid filter %q, expected key=value", pair)
			}
			p[k] = v
		}
		return a.resources.Expenses.List(ctx, p)
	})
	list.Flags().StringArrayVar(&params, "filter", nil, "Query filter key=value, repeatable")

	var startDate, endDate string
	stats := leaf(current, "stats", "Expense totals", cobra.NoArgs, func(ctx context.Context, a *app, _ []string) (json.RawMessage, error) {
		return a.resources.Expenses.Stats(ctx, startDate, endDate)
	})
	stats.Flags().StringVar(&startDate, "from", "", "Start date YYYY-MM-DD")
	stats.Flags().StringVar(&endDate, "to", "", "End date YYYY-MM-DD")

	return group("expenses", "Track expenses", navigation.RouteExpenses,
		list,
		stats,
		leaf(current, "bulk-delete ID...", "Delete several expenses", cobra.MinimumNArgs(1), func(ctx context.Context, a *app, args []string) (json.RawMessage, error) {
			return a.resources.Expenses.BulkDelete(ctx, args)
		}),
	)
}

func newInvoicesCommand(current func() *app) *cobra.Command {
	var file string
	download := &cobra.Command{
		Use:   "download ID",
		Short: "Save an invoice document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			doc, err := a.resources.Invoices.Download(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			target := file
			if target == "" {
				target = filepath.Base(doc.Filename)
			}
			if err := os.WriteFile(target, doc.Data, 0o644); err != nil {
				return fmt.Errorf("write invoice: %w", err)
			}
			return a.out.Value(map[string]any{"file": target, "contentType": doc.ContentType, "bytes": len(doc.Data)})
		},
	}
	download.Flags().StringVar(&file, "file", "", "Destination file (defaults to the server's filename)")

	return group("invoices", "Invoices", navigation.RouteOrders, download)
}

func newUploadCommand(current func() *app) *cobra.Command {
	image := &cobra.Command{
		Use:   "image FILE...",
		Short: "Upload one or more images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			files := make([]resources.File, 0, len(args))
			for _, name := range args {
				f, err := os.Open(name)
				if err != nil {
					return err
				}
				defer f.Close()
				files = append(files, resources.File{Name: filepath.Base(name), Content: f})
			}

			var (
				out json.RawMessage
				err error
			)
			if len(files) == 1 {
				out, err = a.resources.Uploads.Single(cmd.Context(), files[0])
			} else {
				out, err = a.resources.Uploads.Multiple(cmd.Context(), files)
			}
			if err != nil {
				return err
			}
			return a.out.Raw(out)
		},
	}
	return group("upload", "Upload images", navigation.RouteClients, image)
}

func newRawCommand(current func() *app) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:         "raw METHOD PATH",
		Short:       "Send any request through the authenticated client, e.g. raw GET /staff",
		Args:        cobra.ExactArgs(2),
		Annotations: routed(string(navigation.RouteDashboard)),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			path := args[1]
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}
			req := apiclient.Request{Method: strings.ToUpper(args[0]), Path: path}
			if data != "" {
				if !json.Valid([]byte(data)) {
					return fmt.Errorf("--data is not valid JSON")
				}
				req.RawBody = []byte(data)
				req.ContentType = "application/json"
			}
			if before, after, ok := strings.Cut(path, "?"); ok {
				q, err := url.ParseQuery(after)
				if err != nil {
					return err
				}
				req.Path, req.Query = before, q
			}

			resp, err := a.client.Do(cmd.Context(), req)
			if err != nil {
				return err
			}
			if resp.StatusCode == http.StatusNoContent {
				return nil
			}
			return a.out.Raw(resp.JSON())
		},
	}
	cmd.Flags().StringVar(&data, "data", "", "Request body as JSON")
	return cmd
}
