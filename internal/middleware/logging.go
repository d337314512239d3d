package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/sharepay/internal/metrics"
)

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// and records its latency. Client mistakes are logged at Warn, server
// failures at Error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			elapsed := time.Since(start)
			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			metrics.RPCDuration.WithLabelValues(procedure, code).Observe(elapsed.Seconds())

			attrs := []any{
				"procedure", procedure,
				"user_id", GetUserID(ctx),
				"username", GetUsername(ctx),
				"duration_ms", elapsed.Milliseconds(),
			}

			var connectErr *connect.Error
			switch {
			case err == nil:
				slog.Info("RPC ok", attrs...)
			case errors.As(err, &connectErr) && connectErr.Code() != connect.CodeInternal && connectErr.Code() != connect.CodeUnknown:
				slog.Warn("RPC rejected", append(attrs, "code", connectErr.Code(), "error", connectErr.Message())...)
			default:
				slog.Error("RPC failed", append(attrs, "error", err)...)
			}

			return resp, err
		}
	}
}
