package service

import (
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/sharepay/internal/models"
)

var errInternal = errors.New("internal error")

// toConnectError maps a core failure onto a Connect error code. Unknown
// errors are logged and hidden behind a generic message.
func toConnectError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, models.ErrVerificationFailed):
		return connect.NewError(connect.CodePermissionDenied, models.ErrVerificationFailed)
	case errors.Is(err, models.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, models.ErrInvalidCredentials)
	case errors.Is(err, models.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, models.ErrNotAuthorized):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, models.ErrInvalidInput):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, models.ErrConflict):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, models.ErrStateLocked):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	default:
		slog.Error("Unhandled service error", "error", err)
		return connect.NewError(connect.CodeInternal, errInternal)
	}
}
