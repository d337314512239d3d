package service

import (
	"context"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/sharepay/internal/calculator"
	"github.com/mmynk/sharepay/internal/ledger"
	"github.com/mmynk/sharepay/internal/middleware"
	"github.com/mmynk/sharepay/pkg/api"
)

// LedgerService implements the expense RPCs.
type LedgerService struct {
	ledger *ledger.Ledger
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(l *ledger.Ledger) *LedgerService {
	return &LedgerService{ledger: l}
}

// RecordExpense records an expense paid by the caller.
func (s *LedgerService) RecordExpense(ctx context.Context, req *connect.Request[api.RecordExpenseRequest]) (*connect.Response[api.Expense], error) {
	amount, err := calculator.ParseAmount(req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}
	date, err := parseDate(req.Msg.Date)
	if err != nil {
		return nil, toConnectError(err)
	}

	expense, err := s.ledger.RecordExpense(ctx, ledger.RecordInput{
		GroupID:     req.Msg.GroupID,
		PayerID:     middleware.GetUserID(ctx),
		Description: req.Msg.Description,
		Amount:      amount,
		Date:        date,
		Location:    req.Msg.Location,
		ReceiptRef:  req.Msg.ReceiptRef,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(toAPIExpense(expense)), nil
}

// EditExpense overwrites the supplied fields of an expense the caller paid.
func (s *LedgerService) EditExpense(ctx context.Context, req *connect.Request[api.EditExpenseRequest]) (*connect.Response[api.Expense], error) {
	amount, err := parseOptionalAmount(req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	in := ledger.EditInput{
		Description: req.Msg.Description,
		Amount:      amount,
		Location:    req.Msg.Location,
		ReceiptRef:  req.Msg.ReceiptRef,
	}
	if req.Msg.Date != nil {
		if in.Date, err = parseDate(*req.Msg.Date); err != nil {
			return nil, toConnectError(err)
		}
	}

	expense, err := s.ledger.EditExpense(ctx, req.Msg.ExpenseID, middleware.GetUserID(ctx), in)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(toAPIExpense(expense)), nil
}

// DeleteExpense removes an expense the caller paid.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[api.ExpenseRequest]) (*connect.Response[emptypb.Empty], error) {
	if err := s.ledger.DeleteExpense(ctx, req.Msg.ExpenseID, middleware.GetUserID(ctx)); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// GetExpense returns one expense of a group the caller belongs to.
func (s *LedgerService) GetExpense(ctx context.Context, req *connect.Request[api.ExpenseRequest]) (*connect.Response[api.Expense], error) {
	expense, err := s.ledger.GetExpense(ctx, req.Msg.ExpenseID, middleware.GetUserID(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(toAPIExpense(expense)), nil
}

// ListExpenses returns the expenses of a group, newest first.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	expenses, err := s.ledger.ListExpenses(ctx, req.Msg.GroupID, middleware.GetUserID(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.ListExpensesResponse{Expenses: make([]api.Expense, 0, len(expenses))}
	for _, e := range expenses {
		resp.Expenses = append(resp.Expenses, *toAPIExpense(e))
	}
	return connect.NewResponse(resp), nil
}

// GetBalances returns net positions and suggested payments for a group.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.BalancesResponse], error) {
	balances, err := s.ledger.Balances(ctx, req.Msg.GroupID, middleware.GetUserID(ctx))
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.BalancesResponse{
		Members: make([]api.MemberBalance, 0, len(balances.Members)),
		Debts:   make([]api.Debt, 0, len(balances.Debts)),
	}
	for _, m := range balances.Members {
		resp.Members = append(resp.Members, api.MemberBalance{
			UserID:     m.UserID,
			NetBalance: m.NetBalance,
			Lent:       m.Lent,
			Borrowed:   m.Borrowed,
		})
	}
	for _, d := range balances.Debts {
		resp.Debts = append(resp.Debts, api.Debt{From: d.From, To: d.To, Amount: d.Amount})
	}

	return connect.NewResponse(resp), nil
}
