package resources

import (
	"context"

	apperrors "github.com/jrsteele09/sewtrack/internal/errors"
	"github.com/pkg/errors"
)

// BulkError is the failure of one id in a batch.
type BulkError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BulkResult counts the outcome of a batch.
type BulkResult struct {
	Success int         `json:"success"`
	Failed  int         `json:"failed"`
	Errors  []BulkError `json:"errors"`
}

// Payment is the body of a recorded order payment.
type Payment struct {
	Amount float64 `json:"amount"`
	Method string  `json:"method,omitempty"`
}

// StockAdjustment is the body of an inventory adjustment.
type StockAdjustment struct {
	Quantity float64 `json:"quantity"`
	Reason   string  `json:"reason,omitempty"`
}

// Bulk applies one operation to many ids, one request per id, in order.
// A failing id is recorded and the batch moves on. An ended session or a
// cancelled context stops the batch: the remaining ids are counted as
// failed and the stopping error is returned alongside the result.
type Bulk struct {
	clients   *Clients
	orders    *Orders
	inventory *Inventory
}

func (b *Bulk) DeleteClients(ctx context.Context, ids []string) (BulkResult, error) {
	return runBulk(ctx, ids, func(ctx context.Context, id string) error {
		_, err := b.clients.Delete(ctx, id)
		return err
	})
}

func (b *Bulk) DeleteOrders(ctx context.Context, ids []string) (BulkResult, error) {
	return runBulk(ctx, ids, func(ctx context.Context, id string) error {
		_, err := b.orders.Delete(ctx, id)
		return err
	})
}

func (b *Bulk) UpdateOrderStatus(ctx context.Context, ids []string, status string) (BulkResult, error) {
	return runBulk(ctx, ids, func(ctx context.Context, id string) error {
		_, err := b.orders.UpdateStatus(ctx, id, status)
		return err
	})
}

func (b *Bulk) RecordPayments(ctx context.Context, ids []string, payment Payment) (BulkResult, error) {
	return runBulk(ctx, ids, func(ctx context.Context, id string) error {
		_, err := b.orders.RecordPayment(ctx, id, payment)
		return err
	})
}

func (b *Bulk) AdjustInventory(ctx context.Context, ids []string, adjustment StockAdjustment) (BulkResult, error) {
	return runBulk(ctx, ids, func(ctx context.Context, id string) error {
		_, err := b.inventory.Adjust(ctx, id, adjustment)
		return err
	})
}

func (b *Bulk) DeleteInventory(ctx context.Context, ids []string) (BulkResult, error) {
	return runBulk(ctx, ids, func(ctx context.Context, id string) error {
		_, err := b.inventory.DeleteItem(ctx, id)
		return err
	})
}

func runBulk(ctx context.Context, ids []string, op func(ctx context.Context, id string) error) (BulkResult, error) {
	result := BulkResult{Errors: []BulkError{}}
	for i, id := range ids {
		err := ctx.Err()
		if err == nil {
			err = op(ctx, id)
		}
		if err == nil {
			result.Success++
			continue
		}

		result.Failed++
		result.Errors = append(result.Errors, BulkError{ID: id, Error: apperrors.Message(err)})
		if stop := stopReason(ctx, err); stop != "" {
			for _, rest := range ids[i+1:] {
				result.Failed++
				result.Errors = append(result.Errors, BulkError{ID: rest, Error: stop})
			}
			return result, errors.Wrapf(err, "[resources bulk] stopped at %s", id)
		}
	}
	return result, nil
}

// stopReason is the message recorded against ids skipped after err, or ""
// when the batch can go on.
func stopReason(ctx context.Context, err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrSessionEnded):
		return apperrors.ErrSessionEnded.Error()
	case ctx.Err() != nil:
		return ctx.Err().Error()
	default:
		return ""
	}
}
