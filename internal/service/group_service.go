package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/sharepay/internal/membership"
	"github.com/mmynk/sharepay/internal/middleware"
	"github.com/mmynk/sharepay/internal/models"
	"github.com/mmynk/sharepay/pkg/api"
)

// GroupService implements group creation and membership RPCs.
type GroupService struct {
	registry *membership.Registry
}

// NewGroupService creates a new GroupService.
func NewGroupService(registry *membership.Registry) *GroupService {
	return &GroupService{registry: registry}
}

// CreateGroup creates a group with the caller as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.Group], error) {
	group, err := s.registry.CreateGroup(ctx, req.Msg.Name, middleware.GetUserID(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(toAPIGroup(group)), nil
}

// JoinGroup adds the caller to the group with the given tag.
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[api.JoinGroupRequest]) (*connect.Response[api.Group], error) {
	if req.Msg.Tag == "" {
		return nil, toConnectError(models.ErrMissingField)
	}

	group, err := s.registry.JoinByTag(ctx, req.Msg.Tag, middleware.GetUserID(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(toAPIGroup(group)), nil
}

// GetGroup returns a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.Group], error) {
	if err := s.requireMember(ctx, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	group, err := s.registry.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(toAPIGroup(group)), nil
}

// ListGroups returns the caller's groups.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	groups, err := s.registry.GroupsOf(ctx, middleware.GetUserID(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.ListGroupsResponse{Groups: make([]api.Group, 0, len(groups))}
	for _, g := range groups {
		resp.Groups = append(resp.Groups, *toAPIGroup(g))
	}
	return connect.NewResponse(resp), nil
}

// AddMember adds a user to a group the caller belongs to.
func (s *GroupService) AddMember(ctx context.Context, req *connect.Request[api.MemberRequest]) (*connect.Response[emptypb.Empty], error) {
	if err := s.requireMember(ctx, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}
	if err := s.registry.Add(ctx, req.Msg.GroupID, req.Msg.UserID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// RemoveMember lets the caller leave a group. Removing another member is
// not allowed.
func (s *GroupService) RemoveMember(ctx context.Context, req *connect.Request[api.MemberRequest]) (*connect.Response[emptypb.Empty], error) {
	if err := s.requireMember(ctx, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}
	if req.Msg.UserID != middleware.GetUserID(ctx) {
		return nil, toConnectError(models.ErrNotSelf)
	}
	if err := s.registry.Remove(ctx, req.Msg.GroupID, req.Msg.UserID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// IsMember reports whether a user belongs to a group the caller belongs to.
func (s *GroupService) IsMember(ctx context.Context, req *connect.Request[api.MemberRequest]) (*connect.Response[api.IsMemberResponse], error) {
	if err := s.requireMember(ctx, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	ok, err := s.registry.IsMember(ctx, req.Msg.GroupID, req.Msg.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.IsMemberResponse{IsMember: ok}), nil
}

// requireMember rejects callers outside the group. Unknown groups are
// reported as not found.
func (s *GroupService) requireMember(ctx context.Context, groupID string) error {
	if groupID == "" {
		return models.ErrMissingField
	}
	if _, err := s.registry.GetGroup(ctx, groupID); err != nil {
		return err
	}

	userID := middleware.GetUserID(ctx)
	ok, err := s.registry.IsMember(ctx, groupID, userID)
	if err != nil {
		return err
	}
	if !ok {
		slog.Warn("Group access denied", "group_id", groupID, "user_id", userID)
		return models.ErrNotGroupMember
	}
	return nil
}
