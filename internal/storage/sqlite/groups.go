package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/sharepay/internal/models"
)

// CreateGroup persists a new group. Members are added separately.
func (q *queries) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	_, err := q.db.ExecContext(ctx,
		"INSERT INTO groups (id, name, tag, created_at) VALUES (?, ?, ?, ?)",
		group.ID, group.Name, group.Tag, group.CreatedAt,
	)
	switch {
	case uniqueViolation(err, "groups.name"):
		return models.ErrGroupNameTaken
	case uniqueViolation(err, "groups.tag"):
		return models.ErrGroupTagTaken
	case err != nil:
		return fmt.Errorf("failed to insert group: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by ID, including its members.
func (q *queries) GetGroup(ctx context.Context, id string) (*models.Group, error) {
	return q.getGroup(ctx, "id", id)
}

// GetGroupByName retrieves a group by its unique name.
func (q *queries) GetGroupByName(ctx context.Context, name string) (*models.Group, error) {
	return q.getGroup(ctx, "name", name)
}

// GetGroupByTag retrieves a group by its join tag.
func (q *queries) GetGroupByTag(ctx context.Context, tag string) (*models.Group, error) {
	return q.getGroup(ctx, "tag", tag)
}

func (q *queries) getGroup(ctx context.Context, column, value string) (*models.Group, error) {
	group := &models.Group{}
	err := q.db.QueryRowContext(ctx,
		"SELECT id, name, tag, created_at FROM groups WHERE "+column+" = ?",
		value,
	).Scan(&group.ID, &group.Name, &group.Tag, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrGroupNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := q.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	group.Members = members

	return group, nil
}

// ListGroupsByUser retrieves all groups the user belongs to, oldest first.
func (q *queries) ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT g.id, g.name, g.tag, g.created_at
		 FROM groups g JOIN group_members m ON m.group_id = g.id
		 WHERE m.user_id = ? ORDER BY g.created_at, g.name`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups by user: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.Tag, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		if group.Members, err = q.ListMembers(ctx, group.ID); err != nil {
			return nil, err
		}
	}

	return groups, nil
}

// AddMember inserts a (group, user) membership row.
func (q *queries) AddMember(ctx context.Context, groupID, userID string) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO group_members (group_id, user_id) VALUES (?, ?)",
		groupID, userID,
	)
	if uniqueViolation(err, "group_members.group_id") {
		return models.ErrAlreadyMember
	}
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// RemoveMember deletes a (group, user) membership row.
func (q *queries) RemoveMember(ctx context.Context, groupID, userID string) error {
	res, err := q.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return expectAffected(res, models.ErrNotMember)
}

// IsMember reports whether the user currently belongs to the group.
func (q *queries) IsMember(ctx context.Context, groupID, userID string) (bool, error) {
	var exists int
	err := q.db.QueryRowContext(ctx,
		"SELECT 1 FROM group_members WHERE group_id = ? AND user_id = ?",
		groupID, userID,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return true, nil
}

// ListMembers returns the group's member IDs in join order.
func (q *queries) ListMembers(ctx context.Context, groupID string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT user_id FROM group_members WHERE group_id = ? ORDER BY seq",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	defer rows.Close()

	members := []string{}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}
