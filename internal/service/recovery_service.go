package service

import (
	"context"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/sharepay/internal/recovery"
	"github.com/mmynk/sharepay/pkg/api"
)

// RecoveryService implements knowledge-based password recovery. Both
// procedures are public.
type RecoveryService struct {
	verifier *recovery.Verifier
}

// NewRecoveryService creates a new RecoveryService.
func NewRecoveryService(verifier *recovery.Verifier) *RecoveryService {
	return &RecoveryService{verifier: verifier}
}

// Identify starts recovery for a username.
func (s *RecoveryService) Identify(ctx context.Context, req *connect.Request[api.IdentifyRequest]) (*connect.Response[api.IdentifyResponse], error) {
	prompt, err := s.verifier.Identify(ctx, req.Msg.Username)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.IdentifyResponse{
		Username:   prompt.Username,
		Fields:     prompt.Fields,
		MaxAmounts: prompt.MaxAmounts,
	}), nil
}

// Verify checks the recall facts and resets the password.
func (s *RecoveryService) Verify(ctx context.Context, req *connect.Request[api.VerifyRequest]) (*connect.Response[emptypb.Empty], error) {
	err := s.verifier.VerifyAndReset(ctx, recovery.VerifyInput{
		Username:       req.Msg.Username,
		Email:          req.Msg.Email,
		GroupName:      req.Msg.GroupName,
		FriendUsername: req.Msg.FriendUsername,
		Amounts:        req.Msg.Amounts,
		NewPassword:    req.Msg.NewPassword,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&emptypb.Empty{}), nil
}
