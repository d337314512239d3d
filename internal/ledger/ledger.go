// Package ledger records group expenses and generates the per-member
// obligations (splits) they create.
package ledger

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/mmynk/sharepay/internal/calculator"
	"github.com/mmynk/sharepay/internal/membership"
	"github.com/mmynk/sharepay/internal/metrics"
	"github.com/mmynk/sharepay/internal/models"
	"github.com/mmynk/sharepay/internal/storage"
)

// RecordInput describes a new expense.
type RecordInput struct {
	GroupID     string
	PayerID     string
	Description string
	Amount      float64
	// Date defaults to the current time when nil.
	Date       *time.Time
	Location   string
	ReceiptRef string
}

// EditInput carries the fields to overwrite. Nil fields are left unchanged.
type EditInput struct {
	Description *string
	Amount      *float64
	Date        *time.Time
	Location    *string
	ReceiptRef  *string
}

// Balances is the outstanding position of a group.
type Balances struct {
	Members []calculator.MemberBalance
	Debts   []calculator.DebtEdge
}

// Ledger owns expenses and the splits generated for them.
type Ledger struct {
	store storage.Store
	now   func() time.Time
}

// New creates a Ledger backed by store.
func New(store storage.Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

// RecordExpense persists an expense and one split per non-payer member of
// the group, each owing amount / memberCount. The returned expense carries
// its generated splits.
func (l *Ledger) RecordExpense(ctx context.Context, in RecordInput) (*models.Expense, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, models.ErrInvalidDescription
	}
	if !calculator.ValidAmount(in.Amount) {
		return nil, models.ErrInvalidAmount
	}
	if err := models.ValidateReceipt(in.ReceiptRef); err != nil {
		return nil, err
	}

	date := l.now().UTC()
	if in.Date != nil {
		date = in.Date.UTC()
	}

	expense := &models.Expense{
		GroupID:     in.GroupID,
		PayerID:     in.PayerID,
		Description: description,
		Amount:      in.Amount,
		Date:        date,
		Location:    strings.TrimSpace(in.Location),
		ReceiptRef:  in.ReceiptRef,
	}

	err := l.store.WithTx(ctx, func(tx storage.Repository) error {
		if _, err := tx.GetGroup(ctx, in.GroupID); err != nil {
			return err
		}

		members, err := membership.Members(ctx, tx, in.GroupID)
		if err != nil {
			return err
		}
		if len(members) == 0 {
			return models.ErrEmptyGroup
		}

		if _, err := tx.GetUserByID(ctx, in.PayerID); err != nil {
			if errors.Is(err, models.ErrUserNotFound) {
				return models.ErrPayerNotFound
			}
			return err
		}
		if !slices.Contains(members, in.PayerID) {
			return models.ErrPayerNotMember
		}

		shares, err := calculator.SplitEqually(in.Amount, members, in.PayerID)
		if err != nil {
			return err
		}

		if err := tx.CreateExpense(ctx, expense); err != nil {
			return err
		}

		expense.Splits = make([]*models.ExpenseSplit, 0, len(shares))
		for _, share := range shares {
			split := &models.ExpenseSplit{
				ExpenseID: expense.ID,
				UserID:    share.UserID,
				Amount:    share.Amount,
			}
			if err := tx.CreateSplit(ctx, split); err != nil {
				return err
			}
			expense.Splits = append(expense.Splits, split)
		}

		return nil
	})
	if err != nil {
		slog.Warn("Expense rejected", "group_id", in.GroupID, "payer_id", in.PayerID, "error", err)
		return nil, err
	}

	metrics.ExpensesTotal.WithLabelValues("record").Inc()
	metrics.SplitsCreatedTotal.Add(float64(len(expense.Splits)))
	slog.Info("Expense recorded",
		"expense_id", expense.ID,
		"group_id", expense.GroupID,
		"payer_id", expense.PayerID,
		"amount", expense.Amount,
		"splits", len(expense.Splits),
	)

	return expense, nil
}

// EditExpense overwrites the supplied fields of an expense. Only the payer
// may edit, and only while none of its splits is settled. A changed amount
// re-divides by the group's current member count and overwrites every
// split with the new share.
func (l *Ledger) EditExpense(ctx context.Context, expenseID, requesterID string, in EditInput) (*models.Expense, error) {
	if in.Description != nil && strings.TrimSpace(*in.Description) == "" {
		return nil, models.ErrInvalidDescription
	}
	if in.Amount != nil && !calculator.ValidAmount(*in.Amount) {
		return nil, models.ErrInvalidAmount
	}
	if in.ReceiptRef != nil {
		if err := models.ValidateReceipt(*in.ReceiptRef); err != nil {
			return nil, err
		}
	}

	var expense *models.Expense
	err := l.store.WithTx(ctx, func(tx storage.Repository) error {
		var err error
		expense, err = tx.GetExpense(ctx, expenseID)
		if err != nil {
			return err
		}
		if expense.PayerID != requesterID {
			return models.ErrNotPayer
		}

		locked, err := tx.HasSettledSplits(ctx, expenseID)
		if err != nil {
			return err
		}
		if locked {
			return models.ErrSettlementLocked
		}

		if in.Description != nil {
			expense.Description = strings.TrimSpace(*in.Description)
		}
		if in.Date != nil {
			expense.Date = in.Date.UTC()
		}
		if in.Location != nil {
			expense.Location = strings.TrimSpace(*in.Location)
		}
		if in.ReceiptRef != nil {
			expense.ReceiptRef = *in.ReceiptRef
		}

		if in.Amount != nil && !calculator.AmountsEqual(*in.Amount, expense.Amount) {
			expense.Amount = *in.Amount
			if err := regenerateSplits(ctx, tx, expense); err != nil {
				return err
			}
		}

		return tx.UpdateExpense(ctx, expense)
	})
	if err != nil {
		slog.Warn("Expense edit rejected", "expense_id", expenseID, "requester_id", requesterID, "error", err)
		return nil, err
	}

	metrics.ExpensesTotal.WithLabelValues("edit").Inc()
	slog.Info("Expense edited", "expense_id", expense.ID, "amount", expense.Amount)

	return expense, nil
}

// regenerateSplits sets every split of expense to the share implied by its
// amount and the group's current membership.
func regenerateSplits(ctx context.Context, tx storage.Repository, expense *models.Expense) error {
	members, err := membership.Members(ctx, tx, expense.GroupID)
	if err != nil {
		return err
	}

	share, err := calculator.EqualShare(expense.Amount, len(members))
	if err != nil {
		return err
	}

	for _, split := range expense.Splits {
		split.Amount = share
		if err := tx.UpdateSplit(ctx, split); err != nil {
			return err
		}
	}

	return nil
}

// DeleteExpense removes an expense and all of its splits. Only the payer
// may delete.
func (l *Ledger) DeleteExpense(ctx context.Context, expenseID, requesterID string) error {
	err := l.store.WithTx(ctx, func(tx storage.Repository) error {
		expense, err := tx.GetExpense(ctx, expenseID)
		if err != nil {
			return err
		}
		if expense.PayerID != requesterID {
			return models.ErrNotPayer
		}

		if err := tx.DeleteSplitsByExpense(ctx, expenseID); err != nil {
			return err
		}
		return tx.DeleteExpense(ctx, expenseID)
	})
	if err != nil {
		slog.Warn("Expense delete rejected", "expense_id", expenseID, "requester_id", requesterID, "error", err)
		return err
	}

	metrics.ExpensesTotal.WithLabelValues("delete").Inc()
	slog.Info("Expense deleted", "expense_id", expenseID)

	return nil
}

// GetExpense returns an expense with its splits to a member of its group.
func (l *Ledger) GetExpense(ctx context.Context, expenseID, requesterID string) (*models.Expense, error) {
	expense, err := l.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if err := requireMember(ctx, l.store, expense.GroupID, requesterID); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses returns a group's expenses, newest first, to a member of the
// group.
func (l *Ledger) ListExpenses(ctx context.Context, groupID, requesterID string) ([]*models.Expense, error) {
	if _, err := l.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if err := requireMember(ctx, l.store, groupID, requesterID); err != nil {
		return nil, err
	}
	return l.store.ListExpensesByGroup(ctx, groupID)
}

// Balances computes net positions and a simplified debt list from the
// group's unsettled splits.
func (l *Ledger) Balances(ctx context.Context, groupID, requesterID string) (*Balances, error) {
	if _, err := l.store.GetGroup(ctx, groupID); err != nil {
		return nil, err
	}
	if err := requireMember(ctx, l.store, groupID, requesterID); err != nil {
		return nil, err
	}

	outstanding, err := l.store.ListOutstandingByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	obligations := make([]calculator.Obligation, 0, len(outstanding))
	for _, o := range outstanding {
		obligations = append(obligations, calculator.Obligation{
			DebtorID:   o.Split.UserID,
			CreditorID: o.PayerID,
			Amount:     o.Split.Amount,
		})
	}

	members, debts := calculator.CalculateGroupBalances(obligations)
	return &Balances{Members: members, Debts: debts}, nil
}

func requireMember(ctx context.Context, repo storage.Repository, groupID, userID string) error {
	ok, err := membership.IsMember(ctx, repo, groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrNotGroupMember
	}
	return nil
}
