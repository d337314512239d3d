package api

// User is the public view of an account.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse carries a session token for the authenticated user.
type AuthResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
	User      User   `json:"user"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Group is a named set of members with its join tag.
type Group struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Tag     string   `json:"tag"`
	Members []string `json:"members"`
}

type CreateGroupRequest struct {
	Name string `json:"name"`
}

type JoinGroupRequest struct {
	Tag string `json:"tag"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []Group `json:"groups"`
}

// MemberRequest names a user in a group. It is used by AddMember,
// RemoveMember and IsMember.
type MemberRequest struct {
	GroupID string `json:"group_id"`
	UserID  string `json:"user_id"`
}

type IsMemberResponse struct {
	IsMember bool `json:"is_member"`
}

// Split is one member's obligation towards an expense.
type Split struct {
	ID         string  `json:"id"`
	ExpenseID  string  `json:"expense_id"`
	UserID     string  `json:"user_id"`
	Amount     float64 `json:"amount"`
	IsSettled  bool    `json:"is_settled"`
	ReceiptRef string  `json:"receipt_ref,omitempty"`
	SettledAt  int64   `json:"settled_at,omitempty"`
}

// Expense is a recorded payment with its splits. Date is RFC 3339.
type Expense struct {
	ID          string  `json:"id"`
	GroupID     string  `json:"group_id"`
	PayerID     string  `json:"payer_id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Location    string  `json:"location,omitempty"`
	ReceiptRef  string  `json:"receipt_ref,omitempty"`
	CreatedAt   int64   `json:"created_at"`
	Splits      []Split `json:"splits"`
}

// RecordExpenseRequest records an expense paid by the caller. Amount is a
// decimal string; Date is RFC 3339 or YYYY-MM-DD and defaults to now.
type RecordExpenseRequest struct {
	GroupID     string `json:"group_id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Date        string `json:"date,omitempty"`
	Location    string `json:"location,omitempty"`
	ReceiptRef  string `json:"receipt_ref,omitempty"`
}

// EditExpenseRequest overwrites the fields that are set.
type EditExpenseRequest struct {
	ExpenseID   string  `json:"expense_id"`
	Description *string `json:"description,omitempty"`
	Amount      *string `json:"amount,omitempty"`
	Date        *string `json:"date,omitempty"`
	Location    *string `json:"location,omitempty"`
	ReceiptRef  *string `json:"receipt_ref,omitempty"`
}

type ExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type GetBalancesRequest struct {
	GroupID string `json:"group_id"`
}

// MemberBalance is a member's outstanding position. Positive NetBalance
// means the member is owed money.
type MemberBalance struct {
	UserID     string  `json:"user_id"`
	NetBalance float64 `json:"net_balance"`
	Lent       float64 `json:"lent"`
	Borrowed   float64 `json:"borrowed"`
}

// Debt is a suggested payment From one member To another.
type Debt struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
}

type BalancesResponse struct {
	Members []MemberBalance `json:"members"`
	Debts   []Debt          `json:"debts"`
}

type SettleSplitRequest struct {
	SplitID    string `json:"split_id"`
	ReceiptRef string `json:"receipt_ref,omitempty"`
}

// SettleAmountRequest pays Amount against the caller's outstanding splits,
// optionally narrowed to one group, creditor or expense.
type SettleAmountRequest struct {
	GroupID    string `json:"group_id,omitempty"`
	PayerID    string `json:"payer_id,omitempty"`
	ExpenseID  string `json:"expense_id,omitempty"`
	Amount     string `json:"amount"`
	ReceiptRef string `json:"receipt_ref,omitempty"`
}

type SettlementResponse struct {
	Amount    float64 `json:"amount"`
	Applied   float64 `json:"applied"`
	Unapplied float64 `json:"unapplied"`
	Settled   []Split `json:"settled"`
	Remainder *Split  `json:"remainder,omitempty"`
}

type ListOutstandingRequest struct {
	GroupID   string `json:"group_id,omitempty"`
	PayerID   string `json:"payer_id,omitempty"`
	ExpenseID string `json:"expense_id,omitempty"`
}

type ListOutstandingResponse struct {
	Splits []Split `json:"splits"`
}

type IdentifyRequest struct {
	Username string `json:"username"`
}

type IdentifyResponse struct {
	Username   string   `json:"username"`
	Fields     []string `json:"fields"`
	MaxAmounts int      `json:"max_amounts"`
}

type VerifyRequest struct {
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	GroupName      string   `json:"group_name"`
	FriendUsername string   `json:"friend_username"`
	Amounts        []string `json:"amounts"`
	NewPassword    string   `json:"new_password"`
}
