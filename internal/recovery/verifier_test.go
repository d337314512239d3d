package recovery

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/sharepay/internal/auth"
	"github.com/mmynk/sharepay/internal/ledger"
	"github.com/mmynk/sharepay/internal/membership"
	"github.com/mmynk/sharepay/internal/models"
	"github.com/mmynk/sharepay/internal/storage/sqlite"
)

type fixture struct {
	verifier *Verifier
	authn    *auth.PasswordAuthenticator
	store    *sqlite.SQLiteStore
}

// setup registers alice, bob and mallory. Alice and bob share "Trip" where
// alice paid 45.50 and bob paid 12. Mallory is in "Other" alone.
func setup(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	authn := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	users := make(map[string]*models.User)
	for _, name := range []string{"alice", "bob", "mallory"} {
		users[name], err = authn.Register(ctx, name, name+"@example.com", name+"-password")
		require.NoError(t, err)
	}

	registry := membership.NewRegistry(store)
	trip, err := registry.CreateGroup(ctx, "Trip", users["alice"].ID)
	require.NoError(t, err)
	require.NoError(t, registry.Add(ctx, trip.ID, users["bob"].ID))
	_, err = registry.CreateGroup(ctx, "Other", users["mallory"].ID)
	require.NoError(t, err)

	l := ledger.New(store)
	_, err = l.RecordExpense(ctx, ledger.RecordInput{
		GroupID: trip.ID, PayerID: users["alice"].ID, Description: "Fuel", Amount: 45.5,
	})
	require.NoError(t, err)
	_, err = l.RecordExpense(ctx, ledger.RecordInput{
		GroupID: trip.ID, PayerID: users["bob"].ID, Description: "Tolls", Amount: 12,
	})
	require.NoError(t, err)

	return &fixture{verifier: New(store, authn), authn: authn, store: store}
}

func valid() VerifyInput {
	return VerifyInput{
		Username:       "alice",
		Email:          "alice@example.com",
		GroupName:      "Trip",
		FriendUsername: "bob",
		Amounts:        []string{"", "7", "45.50"},
		NewPassword:    "brand-new-secret",
	}
}

func TestIdentify(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	prompt, err := f.verifier.Identify(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", prompt.Username)
	assert.Equal(t, MaxAmounts, prompt.MaxAmounts)
	assert.Contains(t, prompt.Fields, "group_name")

	_, err = f.verifier.Identify(ctx, "nobody")
	assert.ErrorIs(t, err, models.ErrUserNotFound)
}

func TestVerifyAndReset(t *testing.T) {
	ctx := context.Background()

	t.Run("all facts match", func(t *testing.T) {
		f := setup(t)

		require.NoError(t, f.verifier.VerifyAndReset(ctx, valid()))

		_, err := f.authn.Authenticate(ctx, "alice", "alice-password")
		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
		_, err = f.authn.Authenticate(ctx, "alice", "brand-new-secret")
		assert.NoError(t, err)
	})

	failures := []struct {
		name   string
		modify func(in *VerifyInput)
	}{
		{"unknown username", func(in *VerifyInput) { in.Username = "nobody" }},
		{"wrong email", func(in *VerifyInput) { in.Email = "bob@example.com" }},
		{"unknown group", func(in *VerifyInput) { in.GroupName = "Nowhere" }},
		{"group user is not in", func(in *VerifyInput) { in.GroupName = "Other" }},
		{"unknown friend", func(in *VerifyInput) { in.FriendUsername = "nobody" }},
		{"friend not a member", func(in *VerifyInput) { in.FriendUsername = "mallory" }},
		{"friend is the user", func(in *VerifyInput) { in.FriendUsername = "alice" }},
		{"amount never paid by user", func(in *VerifyInput) { in.Amounts = []string{"12"} }},
		{"all amounts blank", func(in *VerifyInput) { in.Amounts = []string{"", " ", ""} }},
		{"unparsable amount", func(in *VerifyInput) { in.Amounts = []string{"forty-five"} }},
	}

	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)
			in := valid()
			tt.modify(&in)

			err := f.verifier.VerifyAndReset(ctx, in)
			require.ErrorIs(t, err, models.ErrVerificationFailed)
			assert.Equal(t, models.ErrVerificationFailed, err, "failure must not reveal which check failed")

			_, err = f.authn.Authenticate(ctx, "alice", "alice-password")
			assert.NoError(t, err, "password must be unchanged")
		})
	}

	t.Run("input errors", func(t *testing.T) {
		f := setup(t)

		in := valid()
		in.NewPassword = "short"
		assert.ErrorIs(t, f.verifier.VerifyAndReset(ctx, in), models.ErrWeakPassword)

		in = valid()
		in.Amounts = []string{"1", "2", "3", "45.5"}
		assert.ErrorIs(t, f.verifier.VerifyAndReset(ctx, in), models.ErrTooManyAmounts)
	})
}

func TestAnyAmountMatches(t *testing.T) {
	paid := []float64{45.5, 50.0 / 3}

	tests := []struct {
		name       string
		candidates []string
		want       bool
	}{
		{"exact", []string{"45.5"}, true},
		{"trailing zeros", []string{"45.50"}, true},
		{"within epsilon", []string{"16.6666666666666667"}, true},
		{"blank skipped", []string{"", "45.5"}, true},
		{"none", []string{"45.51", "16.67"}, false},
		{"negative", []string{"-45.5"}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, anyAmountMatches(tt.candidates, paid))
		})
	}
}
