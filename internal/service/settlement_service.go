package service

import (
	"context"

	"connectrpc.com/connect"

	"github.com/mmynk/sharepay/internal/calculator"
	"github.com/mmynk/sharepay/internal/middleware"
	"github.com/mmynk/sharepay/internal/settlement"
	"github.com/mmynk/sharepay/internal/storage"
	"github.com/mmynk/sharepay/pkg/api"
)

// SettlementService implements the settlement RPCs.
type SettlementService struct {
	engine *settlement.Engine
}

// NewSettlementService creates a new SettlementService.
func NewSettlementService(engine *settlement.Engine) *SettlementService {
	return &SettlementService{engine: engine}
}

// SettleSplit marks one of the caller's splits as paid.
func (s *SettlementService) SettleSplit(ctx context.Context, req *connect.Request[api.SettleSplitRequest]) (*connect.Response[api.Split], error) {
	split, err := s.engine.SettleSplit(ctx, req.Msg.SplitID, middleware.GetUserID(ctx), req.Msg.ReceiptRef)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := toAPISplit(split)
	return connect.NewResponse(&resp), nil
}

// SettleAmount spreads a payment over the caller's outstanding splits.
func (s *SettlementService) SettleAmount(ctx context.Context, req *connect.Request[api.SettleAmountRequest]) (*connect.Response[api.SettlementResponse], error) {
	amount, err := calculator.ParseAmount(req.Msg.Amount)
	if err != nil {
		return nil, toConnectError(err)
	}

	result, err := s.engine.SettleAmount(ctx, middleware.GetUserID(ctx), settlement.PaymentInput{
		GroupID:    req.Msg.GroupID,
		PayerID:    req.Msg.PayerID,
		ExpenseID:  req.Msg.ExpenseID,
		Amount:     amount,
		ReceiptRef: req.Msg.ReceiptRef,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.SettlementResponse{
		Amount:    result.Amount,
		Applied:   result.Applied,
		Unapplied: result.Unapplied,
		Settled:   toAPISplits(result.Settled),
	}
	if result.Remainder != nil {
		remainder := toAPISplit(result.Remainder)
		resp.Remainder = &remainder
	}

	return connect.NewResponse(resp), nil
}

// ListOutstanding returns the caller's open splits in settlement order.
func (s *SettlementService) ListOutstanding(ctx context.Context, req *connect.Request[api.ListOutstandingRequest]) (*connect.Response[api.ListOutstandingResponse], error) {
	splits, err := s.engine.ListOutstanding(ctx, middleware.GetUserID(ctx), storage.SplitFilter{
		GroupID:   req.Msg.GroupID,
		PayerID:   req.Msg.PayerID,
		ExpenseID: req.Msg.ExpenseID,
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.ListOutstandingResponse{Splits: toAPISplits(splits)}), nil
}
