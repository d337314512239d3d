package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mmynk/sharepay/internal/models"
	"github.com/mmynk/sharepay/internal/storage"
)

var splitColumns = []string{
	"s.seq", "s.id", "s.expense_id", "s.user_id", "s.amount", "s.is_settled", "s.receipt_ref", "s.created_at", "s.settled_at",
}

// CreateSplit persists a new split and records its creation sequence.
func (q *queries) CreateSplit(ctx context.Context, split *models.ExpenseSplit) error {
	if split.ID == "" {
		split.ID = uuid.New().String()
	}
	if split.CreatedAt == 0 {
		split.CreatedAt = time.Now().Unix()
	}

	var settledAt any
	if split.SettledAt != 0 {
		settledAt = split.SettledAt
	}

	res, err := q.db.ExecContext(ctx,
		`INSERT INTO expense_splits (id, expense_id, user_id, amount, is_settled, receipt_ref, created_at, settled_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		split.ID, split.ExpenseID, split.UserID, split.Amount, boolToInt(split.IsSettled),
		nullString(split.ReceiptRef), split.CreatedAt, settledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert split: %w", err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read split sequence: %w", err)
	}
	split.Seq = seq

	return nil
}

// GetSplit retrieves a split by ID.
func (q *queries) GetSplit(ctx context.Context, id string) (*models.ExpenseSplit, error) {
	query, args, err := sq.Select(splitColumns...).From("expense_splits s").Where(sq.Eq{"s.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build split query: %w", err)
	}

	split, err := scanSplit(q.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrSplitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split: %w", err)
	}

	return split, nil
}

// UpdateSplit overwrites amount, settled state, receipt and settlement time.
func (q *queries) UpdateSplit(ctx context.Context, split *models.ExpenseSplit) error {
	var settledAt any
	if split.SettledAt != 0 {
		settledAt = split.SettledAt
	}

	res, err := q.db.ExecContext(ctx,
		`UPDATE expense_splits SET amount = ?, is_settled = ?, receipt_ref = ?, settled_at = ? WHERE id = ?`,
		split.Amount, boolToInt(split.IsSettled), nullString(split.ReceiptRef), settledAt, split.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update split: %w", err)
	}

	return expectAffected(res, models.ErrSplitNotFound)
}

// ListSplitsByExpense retrieves every split of an expense in creation order.
func (q *queries) ListSplitsByExpense(ctx context.Context, expenseID string) ([]*models.ExpenseSplit, error) {
	return q.listSplits(ctx, sq.Select(splitColumns...).
		From("expense_splits s").
		Where(sq.Eq{"s.expense_id": expenseID}).
		OrderBy("s.seq"))
}

// ListOutstandingSplits retrieves a user's unsettled splits in creation order.
func (q *queries) ListOutstandingSplits(ctx context.Context, filter storage.SplitFilter) ([]*models.ExpenseSplit, error) {
	if filter.UserID == "" {
		return nil, models.ErrMissingField
	}

	builder := sq.Select(splitColumns...).
		From("expense_splits s").
		Join("expenses e ON e.id = s.expense_id").
		Where(sq.Eq{"s.user_id": filter.UserID, "s.is_settled": 0})
	if filter.GroupID != "" {
		builder = builder.Where(sq.Eq{"e.group_id": filter.GroupID})
	}
	if filter.PayerID != "" {
		builder = builder.Where(sq.Eq{"e.payer_id": filter.PayerID})
	}
	if filter.ExpenseID != "" {
		builder = builder.Where(sq.Eq{"s.expense_id": filter.ExpenseID})
	}

	return q.listSplits(ctx, builder.OrderBy("s.seq"))
}

// ListOutstandingByGroup retrieves every unsettled split of the group's
// expenses along with the payer each one is owed to.
func (q *queries) ListOutstandingByGroup(ctx context.Context, groupID string) ([]*storage.OutstandingSplit, error) {
	query, args, err := sq.Select(append(splitColumns, "e.payer_id")...).
		From("expense_splits s").
		Join("expenses e ON e.id = s.expense_id").
		Where(sq.Eq{"e.group_id": groupID, "s.is_settled": 0}).
		OrderBy("s.seq").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build outstanding query: %w", err)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list outstanding splits: %w", err)
	}
	defer rows.Close()

	var outstanding []*storage.OutstandingSplit
	for rows.Next() {
		var payerID string
		split, err := scanSplit(rows, &payerID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		outstanding = append(outstanding, &storage.OutstandingSplit{Split: split, PayerID: payerID})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return outstanding, nil
}

// DeleteSplitsByExpense removes all splits of an expense.
func (q *queries) DeleteSplitsByExpense(ctx context.Context, expenseID string) error {
	if _, err := q.db.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to delete splits: %w", err)
	}
	return nil
}

// HasSettledSplits reports whether any split of the expense is settled.
func (q *queries) HasSettledSplits(ctx context.Context, expenseID string) (bool, error) {
	var exists int
	err := q.db.QueryRowContext(ctx,
		"SELECT 1 FROM expense_splits WHERE expense_id = ? AND is_settled = 1 LIMIT 1",
		expenseID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check settled splits: %w", err)
	}
	return true, nil
}

func (q *queries) listSplits(ctx context.Context, builder sq.SelectBuilder) ([]*models.ExpenseSplit, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build split query: %w", err)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer rows.Close()

	var splits []*models.ExpenseSplit
	for rows.Next() {
		split, err := scanSplit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return splits, nil
}

// scanSplit scans the split columns followed by any extra destinations.
func scanSplit(row rowScanner, extra ...any) (*models.ExpenseSplit, error) {
	split := &models.ExpenseSplit{}
	var settled int
	var receipt sql.NullString
	var settledAt sql.NullInt64

	dest := []any{
		&split.Seq, &split.ID, &split.ExpenseID, &split.UserID, &split.Amount,
		&settled, &receipt, &split.CreatedAt, &settledAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	split.IsSettled = settled == 1
	split.ReceiptRef = receipt.String
	split.SettledAt = settledAt.Int64

	return split, nil
}
