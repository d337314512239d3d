// Package recovery re-authenticates a user who lost their password by
// checking facts only that user should know: a group they belong to, a
// fellow member of it, and an amount they paid there.
//
// The flow has two steps and keeps no state between them. Identify only
// confirms the account exists and describes what must be supplied;
// VerifyAndReset checks everything at once and never reports which check
// failed.
package recovery

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/mmynk/sharepay/internal/calculator"
	"github.com/mmynk/sharepay/internal/membership"
	"github.com/mmynk/sharepay/internal/metrics"
	"github.com/mmynk/sharepay/internal/models"
	"github.com/mmynk/sharepay/internal/storage"
)

// MaxAmounts is the number of candidate amounts a user may offer.
const MaxAmounts = 3

// Prompt describes what the second step expects. It carries no ledger data.
type Prompt struct {
	Username   string
	Fields     []string
	MaxAmounts int
}

// VerifyInput is the recall data offered by the user. Blank amounts are
// ignored.
type VerifyInput struct {
	Username       string
	Email          string
	GroupName      string
	FriendUsername string
	Amounts        []string
	NewPassword    string
}

// CredentialHasher validates and hashes replacement passwords.
type CredentialHasher interface {
	ValidateCredential(credential string) error
	HashCredential(credential string) (string, error)
}

// Verifier runs knowledge-based account recovery.
type Verifier struct {
	store  storage.Store
	hasher CredentialHasher
}

// New creates a Verifier.
func New(store storage.Store, hasher CredentialHasher) *Verifier {
	return &Verifier{store: store, hasher: hasher}
}

// Identify confirms that username exists and returns the prompt for the
// verification step.
func (v *Verifier) Identify(ctx context.Context, username string) (*Prompt, error) {
	username = strings.TrimSpace(username)
	if _, err := v.store.GetUserByUsername(ctx, username); err != nil {
		return nil, err
	}

	return &Prompt{
		Username:   username,
		Fields:     []string{"email", "group_name", "friend_username", "amounts"},
		MaxAmounts: MaxAmounts,
	}, nil
}

// errCheck is a failed verification condition. It is logged but never
// returned to the caller.
type errCheck string

func (e errCheck) Error() string { return string(e) }

// VerifyAndReset replaces the user's password when every recall fact
// matches the ledger. Any mismatch yields models.ErrVerificationFailed and
// leaves the password untouched.
func (v *Verifier) VerifyAndReset(ctx context.Context, in VerifyInput) error {
	if err := v.hasher.ValidateCredential(in.NewPassword); err != nil {
		return err
	}
	if len(in.Amounts) > MaxAmounts {
		return models.ErrTooManyAmounts
	}

	hashed, err := v.hasher.HashCredential(in.NewPassword)
	if err != nil {
		return err
	}

	var userID string
	err = v.store.WithTx(ctx, func(tx storage.Repository) error {
		user, err := verify(ctx, tx, in)
		if err != nil {
			return err
		}
		userID = user.ID
		return tx.UpdatePasswordHash(ctx, user.ID, hashed)
	})

	var check errCheck
	if errors.As(err, &check) {
		metrics.RecoveryAttemptsTotal.WithLabelValues(metrics.RecoveryFailed).Inc()
		slog.Warn("Recovery verification failed", "username", in.Username, "reason", string(check))
		return models.ErrVerificationFailed
	}
	if err != nil {
		slog.Error("Recovery failed", "username", in.Username, "error", err)
		return err
	}

	metrics.RecoveryAttemptsTotal.WithLabelValues(metrics.RecoverySucceeded).Inc()
	slog.Info("Password reset by recovery", "user_id", userID)
	return nil
}

// verify returns the identified user when all four recall facts hold.
func verify(ctx context.Context, repo storage.Repository, in VerifyInput) (*models.User, error) {
	user, err := repo.GetUserByUsername(ctx, strings.TrimSpace(in.Username))
	if errors.Is(err, models.ErrNotFound) {
		return nil, errCheck("unknown username")
	}
	if err != nil {
		return nil, err
	}
	if user.Email != strings.TrimSpace(in.Email) {
		return nil, errCheck("email mismatch")
	}

	group, err := repo.GetGroupByName(ctx, strings.TrimSpace(in.GroupName))
	if errors.Is(err, models.ErrNotFound) {
		return nil, errCheck("unknown group")
	}
	if err != nil {
		return nil, err
	}
	ok, err := membership.IsMember(ctx, repo, group.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errCheck("user not in group")
	}

	friend, err := repo.GetUserByUsername(ctx, strings.TrimSpace(in.FriendUsername))
	if errors.Is(err, models.ErrNotFound) {
		return nil, errCheck("unknown friend")
	}
	if err != nil {
		return nil, err
	}
	if friend.ID == user.ID {
		return nil, errCheck("friend is the user")
	}
	ok, err = membership.IsMember(ctx, repo, group.ID, friend.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errCheck("friend not in group")
	}

	paid, err := repo.ListExpenseAmountsByPayer(ctx, group.ID, user.ID)
	if err != nil {
		return nil, err
	}
	if !anyAmountMatches(in.Amounts, paid) {
		return nil, errCheck("no matching amount")
	}

	return user, nil
}

// anyAmountMatches reports whether a non-blank candidate equals one of the
// paid amounts. Unparsable candidates never match.
func anyAmountMatches(candidates []string, paid []float64) bool {
	for _, c := range candidates {
		if strings.TrimSpace(c) == "" {
			continue
		}
		amount, err := calculator.ParseAmount(c)
		if err != nil {
			continue
		}
		for _, p := range paid {
			if calculator.AmountsEqual(amount, p) {
				return true
			}
		}
	}
	return false
}
