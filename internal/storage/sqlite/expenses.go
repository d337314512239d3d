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
)

var expenseColumns = []string{
	"id", "group_id", "payer_id", "description", "amount", "date", "location", "receipt_ref", "created_at",
}

// CreateExpense persists a new expense. Splits are inserted separately.
func (q *queries) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Date.IsZero() {
		expense.Date = time.Unix(expense.CreatedAt, 0).UTC()
	}

	query, args, err := sq.Insert("expenses").
		Columns(expenseColumns...).
		Values(
			expense.ID, expense.GroupID, expense.PayerID, expense.Description, expense.Amount,
			expense.Date.Unix(), nullString(expense.Location), nullString(expense.ReceiptRef), expense.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build expense insert: %w", err)
	}

	if _, err := q.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID together with all of its splits.
func (q *queries) GetExpense(ctx context.Context, id string) (*models.Expense, error) {
	query, args, err := sq.Select(expenseColumns...).From("expenses").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build expense query: %w", err)
	}

	expense, err := scanExpense(q.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrExpenseNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if expense.Splits, err = q.ListSplitsByExpense(ctx, expense.ID); err != nil {
		return nil, err
	}

	return expense, nil
}

// UpdateExpense overwrites description, amount, date, location and receipt.
func (q *queries) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	query, args, err := sq.Update("expenses").
		Set("description", expense.Description).
		Set("amount", expense.Amount).
		Set("date", expense.Date.Unix()).
		Set("location", nullString(expense.Location)).
		Set("receipt_ref", nullString(expense.ReceiptRef)).
		Where(sq.Eq{"id": expense.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build expense update: %w", err)
	}

	res, err := q.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}

	return expectAffected(res, models.ErrExpenseNotFound)
}

// DeleteExpense removes an expense row. Its splits must already be gone.
func (q *queries) DeleteExpense(ctx context.Context, id string) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	return expectAffected(res, models.ErrExpenseNotFound)
}

// ListExpensesByGroup retrieves all expenses of a group with their splits,
// newest first.
func (q *queries) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	query, args, err := sq.Select(expenseColumns...).
		From("expenses").
		Where(sq.Eq{"group_id": groupID}).
		OrderBy("date DESC", "created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build expense list query: %w", err)
	}

	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if expense.Splits, err = q.ListSplitsByExpense(ctx, expense.ID); err != nil {
			return nil, err
		}
	}

	return expenses, nil
}

// ListExpenseAmountsByPayer returns the amount of every expense the payer
// made in the group.
func (q *queries) ListExpenseAmountsByPayer(ctx context.Context, groupID, payerID string) ([]float64, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT amount FROM expenses WHERE group_id = ? AND payer_id = ?",
		groupID, payerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense amounts: %w", err)
	}
	defer rows.Close()

	var amounts []float64
	for rows.Next() {
		var amount float64
		if err := rows.Scan(&amount); err != nil {
			return nil, fmt.Errorf("failed to scan expense amount: %w", err)
		}
		amounts = append(amounts, amount)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expense amounts: %w", err)
	}

	return amounts, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var date int64
	var location, receipt sql.NullString

	if err := row.Scan(
		&expense.ID, &expense.GroupID, &expense.PayerID, &expense.Description, &expense.Amount,
		&date, &location, &receipt, &expense.CreatedAt,
	); err != nil {
		return nil, err
	}

	expense.Date = time.Unix(date, 0).UTC()
	expense.Location = location.String
	expense.ReceiptRef = receipt.String

	return expense, nil
}
