// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/sharepay/internal/models"
)

// SplitFilter narrows a query for outstanding splits. Empty fields do not
// filter.
type SplitFilter struct {
	// UserID is the owing member. Required.
	UserID string

	// GroupID restricts to expenses of one group.
	GroupID string

	// PayerID restricts to expenses paid by one creditor.
	PayerID string

	// ExpenseID restricts to one expense.
	ExpenseID string
}

// Repository defines the data operations the core runs against a consistent
// snapshot. Both the store itself and an open transaction implement it.
//
// Lookups of a single entity return the matching models.Err*NotFound error
// when the row is absent.
type Repository interface {
	// CreateUser persists a new user. user.ID is populated by the store.
	// Returns ErrUsernameTaken or ErrEmailTaken on duplicates.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdatePasswordHash replaces the stored credential hash of a user.
	UpdatePasswordHash(ctx context.Context, userID, hash string) error

	// CreateGroup persists a group without members. group.ID is populated
	// by the store. Returns ErrGroupNameTaken or ErrGroupTagTaken on duplicates.
	CreateGroup(ctx context.Context, group *models.Group) error
	// GetGroup retrieves a group with its current members.
	GetGroup(ctx context.Context, id string) (*models.Group, error)
	GetGroupByName(ctx context.Context, name string) (*models.Group, error)
	GetGroupByTag(ctx context.Context, tag string) (*models.Group, error)
	// ListGroupsByUser returns the groups a user currently belongs to.
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)

	// AddMember inserts a membership row. Returns ErrAlreadyMember if present.
	AddMember(ctx context.Context, groupID, userID string) error
	// RemoveMember deletes a membership row. Returns ErrNotMember if absent.
	RemoveMember(ctx context.Context, groupID, userID string) error
	IsMember(ctx context.Context, groupID, userID string) (bool, error)
	// ListMembers returns member user IDs in the order they joined.
	ListMembers(ctx context.Context, groupID string) ([]string, error)

	// CreateExpense persists an expense without its splits.
	CreateExpense(ctx context.Context, expense *models.Expense) error
	// GetExpense retrieves an expense with all of its splits.
	GetExpense(ctx context.Context, id string) (*models.Expense, error)
	// UpdateExpense overwrites the mutable fields of an expense.
	UpdateExpense(ctx context.Context, expense *models.Expense) error
	// DeleteExpense removes the expense row only. Callers delete splits first.
	DeleteExpense(ctx context.Context, id string) error
	// ListExpensesByGroup returns a group's expenses with their splits,
	// newest first.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)
	// ListExpenseAmountsByPayer returns the amounts of every expense in a
	// group paid by the given user.
	ListExpenseAmountsByPayer(ctx context.Context, groupID, payerID string) ([]float64, error)

	// CreateSplit persists a split. split.ID and split.Seq are populated by the store.
	CreateSplit(ctx context.Context, split *models.ExpenseSplit) error
	GetSplit(ctx context.Context, id string) (*models.ExpenseSplit, error)
	// UpdateSplit overwrites amount, settled state and receipt of a split.
	UpdateSplit(ctx context.Context, split *models.ExpenseSplit) error
	// ListSplitsByExpense returns all splits of an expense in creation order.
	ListSplitsByExpense(ctx context.Context, expenseID string) ([]*models.ExpenseSplit, error)
	// ListOutstandingSplits returns unsettled splits matching filter in
	// creation order.
	ListOutstandingSplits(ctx context.Context, filter SplitFilter) ([]*models.ExpenseSplit, error)
	// ListOutstandingByGroup returns every unsettled split of a group's
	// expenses together with the expense payer, keyed by split ID.
	ListOutstandingByGroup(ctx context.Context, groupID string) ([]*OutstandingSplit, error)
	// DeleteSplitsByExpense removes every split of an expense.
	DeleteSplitsByExpense(ctx context.Context, expenseID string) error
	// HasSettledSplits reports whether any split of the expense is settled.
	HasSettledSplits(ctx context.Context, expenseID string) (bool, error)
}

// OutstandingSplit is an unsettled split joined with the creditor it is owed to.
type OutstandingSplit struct {
	Split   *models.ExpenseSplit
	PayerID string
}

// Store defines the interface for SharePay storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	Repository

	// WithTx runs fn inside a single write transaction. The transaction is
	// committed when fn returns nil and rolled back otherwise. Concurrent
	// WithTx calls are serialized.
	WithTx(ctx context.Context, fn func(tx Repository) error) error

	// Close releases any resources held by the store.
	Close() error
}
