package service

import (
	"log/slog"
	"net/http"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/sharepay/internal/auth"
	"github.com/mmynk/sharepay/internal/ledger"
	"github.com/mmynk/sharepay/internal/membership"
	"github.com/mmynk/sharepay/internal/middleware"
	"github.com/mmynk/sharepay/internal/recovery"
	"github.com/mmynk/sharepay/internal/settlement"
	"github.com/mmynk/sharepay/internal/storage"
	"github.com/mmynk/sharepay/pkg/api"
)

// Services bundles every RPC implementation.
type Services struct {
	Auth       *AuthService
	Group      *GroupService
	Ledger     *LedgerService
	Settlement *SettlementService
	Recovery   *RecoveryService
}

// NewServices builds the services on top of store.
func NewServices(store storage.Store, authenticator *auth.PasswordAuthenticator, jwtManager *auth.JWTManager, logger *slog.Logger) *Services {
	return &Services{
		Auth:       NewAuthService(authenticator, jwtManager, logger),
		Group:      NewGroupService(membership.NewRegistry(store)),
		Ledger:     NewLedgerService(ledger.New(store)),
		Settlement: NewSettlementService(settlement.New(store)),
		Recovery:   NewRecoveryService(recovery.New(store, authenticator)),
	}
}

// RouterOptions controls the optional parts of the HTTP surface.
type RouterOptions struct {
	MetricsEnabled bool
}

// NewRouter mounts every procedure on a chi router together with /health
// and, when enabled, /metrics.
func NewRouter(svcs *Services, jwtManager *auth.JWTManager, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer, cors)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	public := []connect.HandlerOption{
		connect.WithCodec(api.Codec{}),
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor()),
	}
	private := []connect.HandlerOption{
		connect.WithCodec(api.Codec{}),
		connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor()),
	}

	// Auth
	r.Handle(api.AuthRegisterProcedure, connect.NewUnaryHandler(api.AuthRegisterProcedure, svcs.Auth.Register, public...))
	r.Handle(api.AuthLoginProcedure, connect.NewUnaryHandler(api.AuthLoginProcedure, svcs.Auth.Login, public...))
	r.Handle(api.AuthChangePasswordProcedure, connect.NewUnaryHandler(api.AuthChangePasswordProcedure, svcs.Auth.ChangePassword, private...))

	// Groups
	r.Handle(api.GroupCreateProcedure, connect.NewUnaryHandler(api.GroupCreateProcedure, svcs.Group.CreateGroup, private...))
	r.Handle(api.GroupJoinProcedure, connect.NewUnaryHandler(api.GroupJoinProcedure, svcs.Group.JoinGroup, private...))
	r.Handle(api.GroupGetProcedure, connect.NewUnaryHandler(api.GroupGetProcedure, svcs.Group.GetGroup, private...))
	r.Handle(api.GroupListProcedure, connect.NewUnaryHandler(api.GroupListProcedure, svcs.Group.ListGroups, private...))
	r.Handle(api.GroupAddMemberProcedure, connect.NewUnaryHandler(api.GroupAddMemberProcedure, svcs.Group.AddMember, private...))
	r.Handle(api.GroupRemoveMemberProcedure, connect.NewUnaryHandler(api.GroupRemoveMemberProcedure, svcs.Group.RemoveMember, private...))
	r.Handle(api.GroupIsMemberProcedure, connect.NewUnaryHandler(api.GroupIsMemberProcedure, svcs.Group.IsMember, private...))

	// Ledger
	r.Handle(api.LedgerRecordExpenseProcedure, connect.NewUnaryHandler(api.LedgerRecordExpenseProcedure, svcs.Ledger.RecordExpense, private...))
	r.Handle(api.LedgerEditExpenseProcedure, connect.NewUnaryHandler(api.LedgerEditExpenseProcedure, svcs.Ledger.EditExpense, private...))
	r.Handle(api.LedgerDeleteExpenseProcedure, connect.NewUnaryHandler(api.LedgerDeleteExpenseProcedure, svcs.Ledger.DeleteExpense, private...))
	r.Handle(api.LedgerGetExpenseProcedure, connect.NewUnaryHandler(api.LedgerGetExpenseProcedure, svcs.Ledger.GetExpense, private...))
	r.Handle(api.LedgerListExpensesProcedure, connect.NewUnaryHandler(api.LedgerListExpensesProcedure, svcs.Ledger.ListExpenses, private...))
	r.Handle(api.LedgerGetBalancesProcedure, connect.NewUnaryHandler(api.LedgerGetBalancesProcedure, svcs.Ledger.GetBalances, private...))

	// Settlement
	r.Handle(api.SettlementSettleSplitProcedure, connect.NewUnaryHandler(api.SettlementSettleSplitProcedure, svcs.Settlement.SettleSplit, private...))
	r.Handle(api.SettlementSettleAmountProcedure, connect.NewUnaryHandler(api.SettlementSettleAmountProcedure, svcs.Settlement.SettleAmount, private...))
	r.Handle(api.SettlementListOutstandingProcedure, connect.NewUnaryHandler(api.SettlementListOutstandingProcedure, svcs.Settlement.ListOutstanding, private...))

	// Recovery
	r.Handle(api.RecoveryIdentifyProcedure, connect.NewUnaryHandler(api.RecoveryIdentifyProcedure, svcs.Recovery.Identify, public...))
	r.Handle(api.RecoveryVerifyProcedure, connect.NewUnaryHandler(api.RecoveryVerifyProcedure, svcs.Recovery.Verify, public...))

	return r
}

// cors adds CORS headers for browser access
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
