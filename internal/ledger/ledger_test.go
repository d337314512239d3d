package ledger

import (
	"context"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/sharepay/internal/membership"
	"github.com/mmynk/sharepay/internal/models"
	"github.com/mmynk/sharepay/internal/storage/sqlite"
)

type fixture struct {
	ledger   *Ledger
	store    *sqlite.SQLiteStore
	registry *membership.Registry
	users    map[string]*models.User
}

func setup(t *testing.T, names ...string) *fixture {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &fixture{
		ledger:   New(store),
		store:    store,
		registry: membership.NewRegistry(store),
		users:    make(map[string]*models.User),
	}
	for _, name := range names {
		user := models.NewUser(name, name+"@example.com", "hash")
		require.NoError(t, store.CreateUser(context.Background(), user))
		f.users[name] = user
	}
	return f
}

// group creates a group owned by the first member and adds the rest.
func (f *fixture) group(t *testing.T, name string, members ...string) *models.Group {
	t.Helper()
	ctx := context.Background()

	group, err := f.registry.CreateGroup(ctx, name, f.users[members[0]].ID)
	require.NoError(t, err)
	for _, m := range members[1:] {
		require.NoError(t, f.registry.Add(ctx, group.ID, f.users[m].ID))
	}
	return group
}

func (f *fixture) id(name string) string {
	return f.users[name].ID
}

func TestRecordExpense(t *testing.T) {
	ctx := context.Background()

	t.Run("two members", func(t *testing.T) {
		f := setup(t, "alice", "bob")
		group := f.group(t, "Flat", "alice", "bob")

		expense, err := f.ledger.RecordExpense(ctx, RecordInput{
			GroupID:     group.ID,
			PayerID:     f.id("alice"),
			Description: "Groceries",
			Amount:      100,
		})
		require.NoError(t, err)
		require.Len(t, expense.Splits, 1)
		assert.Equal(t, f.id("bob"), expense.Splits[0].UserID)
		assert.Equal(t, 50.0, expense.Splits[0].Amount)
		assert.False(t, expense.Splits[0].IsSettled)

		stored, err := f.store.GetExpense(ctx, expense.ID)
		require.NoError(t, err)
		assert.Equal(t, "Groceries", stored.Description)
		require.Len(t, stored.Splits, 1)
	})

	t.Run("three members keep the residue", func(t *testing.T) {
		f := setup(t, "alice", "bob", "carol")
		group := f.group(t, "Trip", "alice", "bob", "carol")
		date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

		expense, err := f.ledger.RecordExpense(ctx, RecordInput{
			GroupID:     group.ID,
			PayerID:     f.id("alice"),
			Description: "Snacks",
			Amount:      50,
			Date:        &date,
			Location:    "Station",
			ReceiptRef:  "snacks.PNG",
		})
		require.NoError(t, err)
		require.Len(t, expense.Splits, 2)
		assert.True(t, expense.Date.Equal(date))

		sum := 0.0
		for _, split := range expense.Splits {
			assert.NotEqual(t, f.id("alice"), split.UserID)
			assert.InDelta(t, 50.0/3, split.Amount, models.Epsilon)
			sum += split.Amount
		}
		assert.InDelta(t, 50.0*2/3, sum, models.Epsilon)
		assert.Less(t, expense.Splits[0].Seq, expense.Splits[1].Seq)
	})

	t.Run("payer alone", func(t *testing.T) {
		f := setup(t, "alice")
		group := f.group(t, "Solo", "alice")

		expense, err := f.ledger.RecordExpense(ctx, RecordInput{
			GroupID: group.ID, PayerID: f.id("alice"), Description: "Coffee", Amount: 4,
		})
		require.NoError(t, err)
		assert.Empty(t, expense.Splits)
	})

	t.Run("failures", func(t *testing.T) {
		f := setup(t, "alice", "bob", "mallory")
		group := f.group(t, "Flat", "alice", "bob")

		empty := f.group(t, "Empty", "mallory")
		require.NoError(t, f.registry.Remove(ctx, empty.ID, f.id("mallory")))

		tests := []struct {
			name  string
			input RecordInput
			want  error
		}{
			{"zero amount", RecordInput{GroupID: group.ID, PayerID: f.id("alice"), Description: "x", Amount: 0}, models.ErrInvalidAmount},
			{"negative amount", RecordInput{GroupID: group.ID, PayerID: f.id("alice"), Description: "x", Amount: -1}, models.ErrInvalidAmount},
			{"infinite amount", RecordInput{GroupID: group.ID, PayerID: f.id("alice"), Description: "x", Amount: math.Inf(1)}, models.ErrInvalidAmount},
			{"NaN amount", RecordInput{GroupID: group.ID, PayerID: f.id("alice"), Description: "x", Amount: math.NaN()}, models.ErrInvalidAmount},
			{"blank description", RecordInput{GroupID: group.ID, PayerID: f.id("alice"), Description: " ", Amount: 1}, models.ErrInvalidDescription},
			{"bad receipt", RecordInput{GroupID: group.ID, PayerID: f.id("alice"), Description: "x", Amount: 1, ReceiptRef: "r.exe"}, models.ErrInvalidReceipt},
			{"unknown group", RecordInput{GroupID: "nope", PayerID: f.id("alice"), Description: "x", Amount: 1}, models.ErrGroupNotFound},
			{"empty group", RecordInput{GroupID: empty.ID, PayerID: f.id("alice"), Description: "x", Amount: 1}, models.ErrEmptyGroup},
			{"unknown payer", RecordInput{GroupID: group.ID, PayerID: "nope", Description: "x", Amount: 1}, models.ErrPayerNotFound},
			{"payer not member", RecordInput{GroupID: group.ID, PayerID: f.id("mallory"), Description: "x", Amount: 1}, models.ErrPayerNotMember},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := f.ledger.RecordExpense(ctx, tt.input)
				assert.ErrorIs(t, err, tt.want)
			})
		}

		expenses, err := f.store.ListExpensesByGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Empty(t, expenses)
	})
}

func TestSplitsAreFixedAtCreation(t *testing.T) {
	ctx := context.Background()
	f := setup(t, "alice", "bob", "carol")
	group := f.group(t, "Flat", "alice", "bob")

	expense, err := f.ledger.RecordExpense(ctx, RecordInput{
		GroupID: group.ID, PayerID: f.id("alice"), Description: "Rent", Amount: 100,
	})
	require.NoError(t, err)

	require.NoError(t, f.registry.Add(ctx, group.ID, f.id("carol")))
	require.NoError(t, f.registry.Remove(ctx, group.ID, f.id("bob")))

	stored, err := f.store.GetExpense(ctx, expense.ID)
	require.NoError(t, err)
	require.Len(t, stored.Splits, 1)
	assert.Equal(t, f.id("bob"), stored.Splits[0].UserID)
	assert.Equal(t, 50.0, stored.Splits[0].Amount)
}

func TestEditExpense(t *testing.T) {
	ctx := context.Background()

	record := func(t *testing.T, f *fixture, groupID string, amount float64) *models.Expense {
		t.Helper()
		expense, err := f.ledger.RecordExpense(ctx, RecordInput{
			GroupID: groupID, PayerID: f.id("alice"), Description: "Dinner", Amount: amount,
		})
		require.NoError(t, err)
		return expense
	}

	t.Run("amount change uses current membership", func(t *testing.T) {
		f := setup(t, "alice", "bob", "carol", "dave")
		group := f.group(t, "Flat", "alice", "bob", "carol")
		expense := record(t, f, group.ID, 90)

		require.NoError(t, f.registry.Add(ctx, group.ID, f.id("dave")))

		amount := 160.0
		description := "Late dinner"
		edited, err := f.ledger.EditExpense(ctx, expense.ID, f.id("alice"), EditInput{
			Amount:      &amount,
			Description: &description,
		})
		require.NoError(t, err)
		assert.Equal(t, 160.0, edited.Amount)
		assert.Equal(t, "Late dinner", edited.Description)

		stored, err := f.store.GetExpense(ctx, expense.ID)
		require.NoError(t, err)
		assert.Equal(t, 160.0, stored.Amount)
		require.Len(t, stored.Splits, 2, "edit never creates splits for new members")
		for _, split := range stored.Splits {
			assert.InDelta(t, 40.0, split.Amount, models.Epsilon)
		}
	})

	t.Run("other fields only", func(t *testing.T) {
		f := setup(t, "alice", "bob")
		group := f.group(t, "Flat", "alice", "bob")
		expense := record(t, f, group.ID, 40)

		location := "Cafe"
		receipt := "bill.pdf"
		date := time.Date(2023, 12, 24, 0, 0, 0, 0, time.UTC)
		_, err := f.ledger.EditExpense(ctx, expense.ID, f.id("alice"), EditInput{
			Location: &location, ReceiptRef: &receipt, Date: &date,
		})
		require.NoError(t, err)

		stored, err := f.store.GetExpense(ctx, expense.ID)
		require.NoError(t, err)
		assert.Equal(t, "Cafe", stored.Location)
		assert.Equal(t, "bill.pdf", stored.ReceiptRef)
		assert.True(t, stored.Date.Equal(date))
		assert.Equal(t, 20.0, stored.Splits[0].Amount)
	})

	t.Run("failures", func(t *testing.T) {
		f := setup(t, "alice", "bob")
		group := f.group(t, "Flat", "alice", "bob")
		expense := record(t, f, group.ID, 40)
		amount := 10.0
		zero := 0.0
		blank := ""
		exe := "x.exe"

		_, err := f.ledger.EditExpense(ctx, "nope", f.id("alice"), EditInput{Amount: &amount})
		assert.ErrorIs(t, err, models.ErrExpenseNotFound)

		_, err = f.ledger.EditExpense(ctx, expense.ID, f.id("bob"), EditInput{Amount: &amount})
		assert.ErrorIs(t, err, models.ErrNotPayer)
		assert.ErrorIs(t, err, models.ErrNotAuthorized)

		_, err = f.ledger.EditExpense(ctx, expense.ID, f.id("alice"), EditInput{Amount: &zero})
		assert.ErrorIs(t, err, models.ErrInvalidAmount)

		inf := math.Inf(1)
		_, err = f.ledger.EditExpense(ctx, expense.ID, f.id("alice"), EditInput{Amount: &inf})
		assert.ErrorIs(t, err, models.ErrInvalidAmount)

		_, err = f.ledger.EditExpense(ctx, expense.ID, f.id("alice"), EditInput{Description: &blank})
		assert.ErrorIs(t, err, models.ErrInvalidDescription)

		_, err = f.ledger.EditExpense(ctx, expense.ID, f.id("alice"), EditInput{ReceiptRef: &exe})
		assert.ErrorIs(t, err, models.ErrInvalidReceipt)
	})

	t.Run("locked once any split is settled", func(t *testing.T) {
		f := setup(t, "alice", "bob", "carol")
		group := f.group(t, "Flat", "alice", "bob", "carol")
		expense := record(t, f, group.ID, 90)

		split := expense.Splits[1]
		split.IsSettled = true
		split.SettledAt = time.Now().Unix()
		require.NoError(t, f.store.UpdateSplit(ctx, split))

		location := "Elsewhere"
		amount := 60.0
		for _, in := range []EditInput{{Location: &location}, {Amount: &amount}} {
			_, err := f.ledger.EditExpense(ctx, expense.ID, f.id("alice"), in)
			assert.ErrorIs(t, err, models.ErrSettlementLocked)
			assert.ErrorIs(t, err, models.ErrStateLocked)
		}

		stored, err := f.store.GetExpense(ctx, expense.ID)
		require.NoError(t, err)
		assert.Equal(t, 90.0, stored.Amount)
		assert.Empty(t, stored.Location)
	})
}

func TestDeleteExpense(t *testing.T) {
	ctx := context.Background()
	f := setup(t, "alice", "bob", "carol")
	group := f.group(t, "Flat", "alice", "bob", "carol")

	expense, err := f.ledger.RecordExpense(ctx, RecordInput{
		GroupID: group.ID, PayerID: f.id("alice"), Description: "Rent", Amount: 300,
	})
	require.NoError(t, err)

	assert.ErrorIs(t, f.ledger.DeleteExpense(ctx, expense.ID, f.id("bob")), models.ErrNotPayer)
	assert.ErrorIs(t, f.ledger.DeleteExpense(ctx, "nope", f.id("alice")), models.ErrExpenseNotFound)

	require.NoError(t, f.ledger.DeleteExpense(ctx, expense.ID, f.id("alice")))

	_, err = f.store.GetExpense(ctx, expense.ID)
	assert.ErrorIs(t, err, models.ErrExpenseNotFound)

	splits, err := f.store.ListSplitsByExpense(ctx, expense.ID)
	require.NoError(t, err)
	assert.Empty(t, splits)
}

func TestListAndBalances(t *testing.T) {
	ctx := context.Background()
	f := setup(t, "alice", "bob", "carol", "mallory")
	group := f.group(t, "Flat", "alice", "bob", "carol")

	_, err := f.ledger.RecordExpense(ctx, RecordInput{
		GroupID: group.ID, PayerID: f.id("alice"), Description: "Rent", Amount: 90,
		Date: ptr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
	_, err = f.ledger.RecordExpense(ctx, RecordInput{
		GroupID: group.ID, PayerID: f.id("bob"), Description: "Power", Amount: 30,
		Date: ptr(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)

	t.Run("list newest first", func(t *testing.T) {
		expenses, err := f.ledger.ListExpenses(ctx, group.ID, f.id("carol"))
		require.NoError(t, err)
		require.Len(t, expenses, 2)
		assert.Equal(t, "Power", expenses[0].Description)
		assert.Equal(t, "Rent", expenses[1].Description)
	})

	t.Run("non-members are rejected", func(t *testing.T) {
		_, err := f.ledger.ListExpenses(ctx, group.ID, f.id("mallory"))
		assert.ErrorIs(t, err, models.ErrNotGroupMember)

		_, err = f.ledger.Balances(ctx, group.ID, f.id("mallory"))
		assert.ErrorIs(t, err, models.ErrNotGroupMember)
	})

	t.Run("balances", func(t *testing.T) {
		// Rent: bob and carol owe alice 30 each. Power: alice and carol owe bob 10 each.
		balances, err := f.ledger.Balances(ctx, group.ID, f.id("alice"))
		require.NoError(t, err)

		net := make(map[string]float64)
		for _, b := range balances.Members {
			net[b.UserID] = b.NetBalance
		}
		assert.InDelta(t, 50.0, net[f.id("alice")], 1e-6)
		assert.InDelta(t, -10.0, net[f.id("bob")], 1e-6)
		assert.InDelta(t, -40.0, net[f.id("carol")], 1e-6)

		total := 0.0
		for _, d := range balances.Debts {
			assert.Equal(t, f.id("alice"), d.To)
			total += d.Amount
		}
		assert.InDelta(t, 50.0, total, 1e-6)
	})
}

func ptr[T any](v T) *T {
	return &v
}
