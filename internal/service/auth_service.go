package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/sharepay/internal/auth"
	"github.com/mmynk/sharepay/internal/middleware"
	"github.com/mmynk/sharepay/internal/models"
	"github.com/mmynk/sharepay/pkg/api"
)

// AuthService implements the AuthService RPC interface.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	logger        *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		logger:        logger,
	}
}

// Register creates a new user account and logs it in.
func (s *AuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.AuthResponse], error) {
	s.logger.Info("Register request", "username", req.Msg.Username)

	user, err := s.authenticator.Register(ctx, req.Msg.Username, req.Msg.Email, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Registration failed", "username", req.Msg.Username, "error", err)
		return nil, toConnectError(err)
	}

	return s.session(user)
}

// Login authenticates a user and returns a JWT token.
func (s *AuthService) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.AuthResponse], error) {
	if req.Msg.Username == "" || req.Msg.Password == "" {
		return nil, toConnectError(models.ErrMissingField)
	}

	user, err := s.authenticator.Authenticate(ctx, req.Msg.Username, req.Msg.Password)
	if err != nil {
		s.logger.Warn("Login failed", "username", req.Msg.Username, "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return s.session(user)
}

// ChangePassword replaces the caller's password.
func (s *AuthService) ChangePassword(ctx context.Context, req *connect.Request[api.ChangePasswordRequest]) (*connect.Response[emptypb.Empty], error) {
	userID := middleware.GetUserID(ctx)

	if err := s.authenticator.ChangeCredential(ctx, userID, req.Msg.CurrentPassword, req.Msg.NewPassword); err != nil {
		s.logger.Warn("Password change failed", "user_id", userID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&emptypb.Empty{}), nil
}

func (s *AuthService) session(user *models.User) (*connect.Response[api.AuthResponse], error) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.AuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(s.jwtManager.TokenDuration()).Unix(),
		User:      toAPIUser(user),
	}), nil
}
