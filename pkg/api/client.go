package api

import (
	"context"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"
)

// Client calls a SharePay server. A zero token makes anonymous calls.
type Client struct {
	httpClient connect.HTTPClient
	baseURL    string
	token      string
}

// NewClient creates a Client for the server at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string) *Client {
	return &Client{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// WithToken returns a copy of c that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

// call performs one unary RPC.
func call[Req, Res any](ctx context.Context, c *Client, procedure string, msg *Req) (*Res, error) {
	client := connect.NewClient[Req, Res](c.httpClient, c.baseURL+procedure, connect.WithCodec(Codec{}))

	req := connect.NewRequest(msg)
	if c.token != "" {
		req.Header().Set("Authorization", "Bearer "+c.token)
	}

	resp, err := client.CallUnary(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *Client) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	return call[RegisterRequest, AuthResponse](ctx, c, AuthRegisterProcedure, req)
}

func (c *Client) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	return call[LoginRequest, AuthResponse](ctx, c, AuthLoginProcedure, req)
}

func (c *Client) ChangePassword(ctx context.Context, req *ChangePasswordRequest) error {
	_, err := call[ChangePasswordRequest, emptypb.Empty](ctx, c, AuthChangePasswordProcedure, req)
	return err
}

func (c *Client) CreateGroup(ctx context.Context, req *CreateGroupRequest) (*Group, error) {
	return call[CreateGroupRequest, Group](ctx, c, GroupCreateProcedure, req)
}

func (c *Client) JoinGroup(ctx context.Context, req *JoinGroupRequest) (*Group, error) {
	return call[JoinGroupRequest, Group](ctx, c, GroupJoinProcedure, req)
}

func (c *Client) GetGroup(ctx context.Context, req *GetGroupRequest) (*Group, error) {
	return call[GetGroupRequest, Group](ctx, c, GroupGetProcedure, req)
}

func (c *Client) ListGroups(ctx context.Context) (*ListGroupsResponse, error) {
	return call[ListGroupsRequest, ListGroupsResponse](ctx, c, GroupListProcedure, &ListGroupsRequest{})
}

func (c *Client) AddMember(ctx context.Context, req *MemberRequest) error {
	_, err := call[MemberRequest, emptypb.Empty](ctx, c, GroupAddMemberProcedure, req)
	return err
}

func (c *Client) RemoveMember(ctx context.Context, req *MemberRequest) error {
	_, err := call[MemberRequest, emptypb.Empty](ctx, c, GroupRemoveMemberProcedure, req)
	return err
}

func (c *Client) IsMember(ctx context.Context, req *MemberRequest) (*IsMemberResponse, error) {
	return call[MemberRequest, IsMemberResponse](ctx, c, GroupIsMemberProcedure, req)
}

func (c *Client) RecordExpense(ctx context.Context, req *RecordExpenseRequest) (*Expense, error) {
	return call[RecordExpenseRequest, Expense](ctx, c, LedgerRecordExpenseProcedure, req)
}

func (c *Client) EditExpense(ctx context.Context, req *EditExpenseRequest) (*Expense, error) {
	return call[EditExpenseRequest, Expense](ctx, c, LedgerEditExpenseProcedure, req)
}

func (c *Client) DeleteExpense(ctx context.Context, req *ExpenseRequest) error {
	_, err := call[ExpenseRequest, emptypb.Empty](ctx, c, LedgerDeleteExpenseProcedure, req)
	return err
}

func (c *Client) GetExpense(ctx context.Context, req *ExpenseRequest) (*Expense, error) {
	return call[ExpenseRequest, Expense](ctx, c, LedgerGetExpenseProcedure, req)
}

func (c *Client) ListExpenses(ctx context.Context, req *ListExpensesRequest) (*ListExpensesResponse, error) {
	return call[ListExpensesRequest, ListExpensesResponse](ctx, c, LedgerListExpensesProcedure, req)
}

func (c *Client) GetBalances(ctx context.Context, req *GetBalancesRequest) (*BalancesResponse, error) {
	return call[GetBalancesRequest, BalancesResponse](ctx, c, LedgerGetBalancesProcedure, req)
}

func (c *Client) SettleSplit(ctx context.Context, req *SettleSplitRequest) (*Split, error) {
	return call[SettleSplitRequest, Split](ctx, c, SettlementSettleSplitProcedure, req)
}

func (c *Client) SettleAmount(ctx context.Context, req *SettleAmountRequest) (*SettlementResponse, error) {
	return call[SettleAmountRequest, SettlementResponse](ctx, c, SettlementSettleAmountProcedure, req)
}

func (c *Client) ListOutstanding(ctx context.Context, req *ListOutstandingRequest) (*ListOutstandingResponse, error) {
	return call[ListOutstandingRequest, ListOutstandingResponse](ctx, c, SettlementListOutstandingProcedure, req)
}

func (c *Client) Identify(ctx context.Context, req *IdentifyRequest) (*IdentifyResponse, error) {
	return call[IdentifyRequest, IdentifyResponse](ctx, c, RecoveryIdentifyProcedure, req)
}

func (c *Client) Verify(ctx context.Context, req *VerifyRequest) error {
	_, err := call[VerifyRequest, emptypb.Empty](ctx, c, RecoveryVerifyProcedure, req)
	return err
}
