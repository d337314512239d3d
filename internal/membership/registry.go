// Package membership tracks which users belong to which groups.
//
// The membership relation is the only place group composition changes. The
// package-level functions operate on any storage.Repository so the ledger
// and the recovery verifier can consult membership inside their own
// transactions; Registry wraps them in transactions of its own.
package membership

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/mmynk/sharepay/internal/models"
	"github.com/mmynk/sharepay/internal/storage"
)

// tagAttempts bounds retries when a generated tag collides.
const tagAttempts = 3

// IsMember reports whether userID currently belongs to groupID.
func IsMember(ctx context.Context, repo storage.Repository, groupID, userID string) (bool, error) {
	return repo.IsMember(ctx, groupID, userID)
}

// Members returns the current member IDs of a group in join order.
func Members(ctx context.Context, repo storage.Repository, groupID string) ([]string, error) {
	return repo.ListMembers(ctx, groupID)
}

// Add puts userID into groupID. It fails with ErrAlreadyMember rather than
// silently succeeding when the user is already present.
func Add(ctx context.Context, repo storage.Repository, groupID, userID string) error {
	if _, err := repo.GetGroup(ctx, groupID); err != nil {
		return err
	}
	if _, err := repo.GetUserByID(ctx, userID); err != nil {
		return err
	}

	ok, err := repo.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if ok {
		return models.ErrAlreadyMember
	}

	return repo.AddMember(ctx, groupID, userID)
}

// Remove takes userID out of groupID. It fails with ErrNotMember when the
// user is absent. Existing splits are not touched.
func Remove(ctx context.Context, repo storage.Repository, groupID, userID string) error {
	if _, err := repo.GetGroup(ctx, groupID); err != nil {
		return err
	}

	ok, err := repo.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrNotMember
	}

	return repo.RemoveMember(ctx, groupID, userID)
}

// Registry is the transactional entry point to group membership.
type Registry struct {
	store storage.Store
}

// NewRegistry creates a Registry backed by store.
func NewRegistry(store storage.Store) *Registry {
	return &Registry{store: store}
}

// IsMember reports whether userID currently belongs to groupID.
func (r *Registry) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	return IsMember(ctx, r.store, groupID, userID)
}

// Add puts userID into groupID.
func (r *Registry) Add(ctx context.Context, groupID, userID string) error {
	err := r.store.WithTx(ctx, func(tx storage.Repository) error {
		return Add(ctx, tx, groupID, userID)
	})
	if err != nil {
		return err
	}

	slog.Info("Member added", "group_id", groupID, "user_id", userID)
	return nil
}

// Remove takes userID out of groupID.
func (r *Registry) Remove(ctx context.Context, groupID, userID string) error {
	err := r.store.WithTx(ctx, func(tx storage.Repository) error {
		return Remove(ctx, tx, groupID, userID)
	})
	if err != nil {
		return err
	}

	slog.Info("Member removed", "group_id", groupID, "user_id", userID)
	return nil
}

// CreateGroup creates a group with a generated join tag and makes the
// creator its first member.
func (r *Registry) CreateGroup(ctx context.Context, name, creatorID string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.ErrMissingField
	}

	var group *models.Group
	var err error
	for attempt := 0; attempt < tagAttempts; attempt++ {
		group = &models.Group{Name: name, Tag: newTag()}
		err = r.store.WithTx(ctx, func(tx storage.Repository) error {
			if _, err := tx.GetUserByID(ctx, creatorID); err != nil {
				return err
			}
			if err := tx.CreateGroup(ctx, group); err != nil {
				return err
			}
			return tx.AddMember(ctx, group.ID, creatorID)
		})
		if !errors.Is(err, models.ErrGroupTagTaken) {
			break
		}
		slog.Warn("Group tag collision, retrying", "tag", group.Tag)
	}
	if err != nil {
		return nil, err
	}

	group.Members = []string{creatorID}
	slog.Info("Group created", "group_id", group.ID, "tag", group.Tag, "creator_id", creatorID)
	return group, nil
}

// JoinByTag adds userID to the group identified by its join tag.
func (r *Registry) JoinByTag(ctx context.Context, tag, userID string) (*models.Group, error) {
	var group *models.Group
	err := r.store.WithTx(ctx, func(tx storage.Repository) error {
		g, err := tx.GetGroupByTag(ctx, strings.TrimSpace(tag))
		if err != nil {
			return err
		}
		if err := Add(ctx, tx, g.ID, userID); err != nil {
			return err
		}
		group, err = tx.GetGroup(ctx, g.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Member joined by tag", "group_id", group.ID, "user_id", userID)
	return group, nil
}

// GetGroup retrieves a group with its members.
func (r *Registry) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return r.store.GetGroup(ctx, groupID)
}

// GroupsOf lists the groups userID belongs to.
func (r *Registry) GroupsOf(ctx context.Context, userID string) ([]*models.Group, error) {
	return r.store.ListGroupsByUser(ctx, userID)
}

// newTag returns a short random join token.
func newTag() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:10]
}
