// Package api defines the SharePay Connect API: procedure names, request
// and response messages, the JSON codec and a typed client.
package api

// Service names.
const (
	AuthServiceName       = "sharepay.v1.AuthService"
	GroupServiceName      = "sharepay.v1.GroupService"
	LedgerServiceName     = "sharepay.v1.LedgerService"
	SettlementServiceName = "sharepay.v1.SettlementService"
	RecoveryServiceName   = "sharepay.v1.RecoveryService"
)

// AuthService procedures.
const (
	AuthRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthChangePasswordProcedure = "/" + AuthServiceName + "/ChangePassword"
)

// GroupService procedures.
const (
	GroupCreateProcedure       = "/" + GroupServiceName + "/CreateGroup"
	GroupJoinProcedure         = "/" + GroupServiceName + "/JoinGroup"
	GroupGetProcedure          = "/" + GroupServiceName + "/GetGroup"
	GroupListProcedure         = "/" + GroupServiceName + "/ListGroups"
	GroupAddMemberProcedure    = "/" + GroupServiceName + "/AddMember"
	GroupRemoveMemberProcedure = "/" + GroupServiceName + "/RemoveMember"
	GroupIsMemberProcedure     = "/" + GroupServiceName + "/IsMember"
)

// LedgerService procedures.
const (
	LedgerRecordExpenseProcedure = "/" + LedgerServiceName + "/RecordExpense"
	LedgerEditExpenseProcedure   = "/" + LedgerServiceName + "/EditExpense"
	LedgerDeleteExpenseProcedure = "/" + LedgerServiceName + "/DeleteExpense"
	LedgerGetExpenseProcedure    = "/" + LedgerServiceName + "/GetExpense"
	LedgerListExpensesProcedure  = "/" + LedgerServiceName + "/ListExpenses"
	LedgerGetBalancesProcedure   = "/" + LedgerServiceName + "/GetBalances"
)

// SettlementService procedures.
const (
	SettlementSettleSplitProcedure     = "/" + SettlementServiceName + "/SettleSplit"
	SettlementSettleAmountProcedure    = "/" + SettlementServiceName + "/SettleAmount"
	SettlementListOutstandingProcedure = "/" + SettlementServiceName + "/ListOutstanding"
)

// RecoveryService procedures.
const (
	RecoveryIdentifyProcedure = "/" + RecoveryServiceName + "/Identify"
	RecoveryVerifyProcedure   = "/" + RecoveryServiceName + "/Verify"
)
