// Package settlement discharges split obligations, either one split at a
// time or by spreading a payment across a member's outstanding splits.
package settlement

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmynk/sharepay/internal/calculator"
	"github.com/mmynk/sharepay/internal/metrics"
	"github.com/mmynk/sharepay/internal/models"
	"github.com/mmynk/sharepay/internal/storage"
)

// PaymentInput describes a payment made by a member. GroupID, PayerID and
// ExpenseID optionally narrow which outstanding splits the payment walks.
type PaymentInput struct {
	GroupID    string
	PayerID    string
	ExpenseID  string
	Amount     float64
	ReceiptRef string
}

// Engine settles splits.
type Engine struct {
	store storage.Store
	now   func() time.Time
}

// New creates an Engine backed by store.
func New(store storage.Store) *Engine {
	return &Engine{store: store, now: time.Now}
}

// SettleSplit marks one split as fully paid. Only the owing member may
// settle it.
func (e *Engine) SettleSplit(ctx context.Context, splitID, requesterID, receiptRef string) (*models.ExpenseSplit, error) {
	if err := models.ValidateReceipt(receiptRef); err != nil {
		return nil, err
	}

	var split *models.ExpenseSplit
	err := e.store.WithTx(ctx, func(tx storage.Repository) error {
		var err error
		split, err = tx.GetSplit(ctx, splitID)
		if err != nil {
			return err
		}
		if split.UserID != requesterID {
			return models.ErrNotSplitOwner
		}
		if split.IsSettled {
			return models.ErrAlreadySettled
		}

		e.markSettled(split, receiptRef)
		return tx.UpdateSplit(ctx, split)
	})
	if err != nil {
		slog.Warn("Split settlement rejected", "split_id", splitID, "requester_id", requesterID, "error", err)
		return nil, err
	}

	metrics.SplitsSettledTotal.WithLabelValues(metrics.SettleFull).Inc()
	slog.Info("Split settled", "split_id", split.ID, "user_id", split.UserID, "amount", split.Amount)

	return split, nil
}

// SettleAmount spreads a payment across the requester's outstanding splits
// in creation order. Splits the payment covers are settled in full; the
// first split it only partly covers is reduced to the paid part and settled,
// and a new open split carries the rest. Any overpayment is discarded.
func (e *Engine) SettleAmount(ctx context.Context, requesterID string, in PaymentInput) (*models.Settlement, error) {
	if !calculator.ValidAmount(in.Amount) {
		return nil, models.ErrInvalidAmount
	}
	if err := models.ValidateReceipt(in.ReceiptRef); err != nil {
		return nil, err
	}

	var result *models.Settlement
	err := e.store.WithTx(ctx, func(tx storage.Repository) error {
		if in.ExpenseID != "" {
			if _, err := tx.GetExpense(ctx, in.ExpenseID); err != nil {
				return err
			}
		}

		splits, err := tx.ListOutstandingSplits(ctx, storage.SplitFilter{
			UserID:    requesterID,
			GroupID:   in.GroupID,
			PayerID:   in.PayerID,
			ExpenseID: in.ExpenseID,
		})
		if err != nil {
			return err
		}

		result, err = e.apply(ctx, tx, splits, in.Amount, in.ReceiptRef)
		if err != nil {
			return err
		}
		result.UserID = requesterID
		return nil
	})
	if err != nil {
		slog.Warn("Payment rejected", "user_id", requesterID, "amount", in.Amount, "error", err)
		return nil, err
	}

	e.record(result)
	slog.Info("Payment settled",
		"user_id", result.UserID,
		"amount", result.Amount,
		"settled", len(result.Settled),
		"fragmented", result.Fragmented(),
		"unapplied", result.Unapplied,
	)

	return result, nil
}

// apply settles splits against payment inside tx. splits must be open and
// in creation order.
func (e *Engine) apply(ctx context.Context, tx storage.Repository, splits []*models.ExpenseSplit, payment float64, receiptRef string) (*models.Settlement, error) {
	amounts := make([]float64, len(splits))
	for i, split := range splits {
		amounts[i] = split.Amount
	}
	alloc := calculator.Allocate(amounts, payment)

	result := &models.Settlement{
		Amount:    payment,
		Applied:   alloc.Applied,
		Unapplied: alloc.Unapplied,
	}

	for _, i := range alloc.Full {
		split := splits[i]
		e.markSettled(split, receiptRef)
		if err := tx.UpdateSplit(ctx, split); err != nil {
			return nil, err
		}
		result.Settled = append(result.Settled, split)
	}

	if frag := alloc.Partial; frag != nil {
		split := splits[frag.Index]
		split.Amount = frag.Settled
		e.markSettled(split, receiptRef)
		if err := tx.UpdateSplit(ctx, split); err != nil {
			return nil, err
		}
		result.Settled = append(result.Settled, split)

		remainder := &models.ExpenseSplit{
			ExpenseID: split.ExpenseID,
			UserID:    split.UserID,
			Amount:    frag.Remainder,
		}
		if err := tx.CreateSplit(ctx, remainder); err != nil {
			return nil, err
		}
		result.Remainder = remainder
	}

	return result, nil
}

// ListOutstanding returns the requester's open splits in creation order.
func (e *Engine) ListOutstanding(ctx context.Context, requesterID string, filter storage.SplitFilter) ([]*models.ExpenseSplit, error) {
	filter.UserID = requesterID
	return e.store.ListOutstandingSplits(ctx, filter)
}

func (e *Engine) markSettled(split *models.ExpenseSplit, receiptRef string) {
	split.IsSettled = true
	split.SettledAt = e.now().Unix()
	if receiptRef != "" {
		split.ReceiptRef = receiptRef
	}
}

func (e *Engine) record(result *models.Settlement) {
	full := len(result.Settled)
	if result.Fragmented() {
		full--
		metrics.SplitsSettledTotal.WithLabelValues(metrics.SettlePartial).Inc()
	}
	metrics.SplitsSettledTotal.WithLabelValues(metrics.SettleFull).Add(float64(full))
	if result.Unapplied > 0 {
		metrics.UnappliedAmountTotal.Add(result.Unapplied)
	}
}
