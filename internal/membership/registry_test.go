package membership

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/sharepay/internal/models"
	"github.com/mmynk/sharepay/internal/storage/sqlite"
)

func setup(t *testing.T) (*Registry, *sqlite.SQLiteStore) {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return NewRegistry(store), store
}

func newUser(t *testing.T, store *sqlite.SQLiteStore, name string) *models.User {
	t.Helper()

	user := models.NewUser(name, name+"@example.com", "hash")
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user
}

func TestRegistry(t *testing.T) {
	registry, store := setup(t)
	ctx := context.Background()
	alice := newUser(t, store, "alice")
	bob := newUser(t, store, "bob")

	group, err := registry.CreateGroup(ctx, "  Hiking ", alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hiking", group.Name)
	assert.Len(t, group.Tag, 10)
	assert.Equal(t, []string{alice.ID}, group.Members)

	t.Run("creator is a member", func(t *testing.T) {
		ok, err := registry.IsMember(ctx, group.ID, alice.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("add rejects duplicates", func(t *testing.T) {
		require.NoError(t, registry.Add(ctx, group.ID, bob.ID))
		err := registry.Add(ctx, group.ID, bob.ID)
		assert.ErrorIs(t, err, models.ErrAlreadyMember)
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("remove rejects absent members", func(t *testing.T) {
		require.NoError(t, registry.Remove(ctx, group.ID, bob.ID))
		assert.ErrorIs(t, registry.Remove(ctx, group.ID, bob.ID), models.ErrNotMember)

		ok, err := registry.IsMember(ctx, group.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("join by tag", func(t *testing.T) {
		joined, err := registry.JoinByTag(ctx, group.Tag, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{alice.ID, bob.ID}, joined.Members)

		_, err = registry.JoinByTag(ctx, "missing", bob.ID)
		assert.ErrorIs(t, err, models.ErrGroupNotFound)
	})

	t.Run("groups of user", func(t *testing.T) {
		groups, err := registry.GroupsOf(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, groups, 1)
		assert.Equal(t, group.ID, groups[0].ID)
	})

	t.Run("unknown references", func(t *testing.T) {
		assert.ErrorIs(t, registry.Add(ctx, "nope", bob.ID), models.ErrGroupNotFound)
		assert.ErrorIs(t, registry.Add(ctx, group.ID, "nope"), models.ErrUserNotFound)
		assert.ErrorIs(t, registry.Remove(ctx, "nope", bob.ID), models.ErrGroupNotFound)
	})

	t.Run("group names are unique", func(t *testing.T) {
		_, err := registry.CreateGroup(ctx, "Hiking", bob.ID)
		assert.ErrorIs(t, err, models.ErrGroupNameTaken)

		_, err = registry.CreateGroup(ctx, " ", bob.ID)
		assert.ErrorIs(t, err, models.ErrMissingField)
	})
}
