package calculator

import "sort"

// minDebt is the smallest amount worth reporting; below it is float noise.
const minDebt = 0.01

// Obligation is an outstanding amount one member owes another.
type Obligation struct {
	DebtorID   string // Member who owes (split owner)
	CreditorID string // Member who is owed (expense payer)
	Amount     float64
}

// MemberBalance represents the balance information for one group member.
type MemberBalance struct {
	UserID     string
	NetBalance float64 // Positive = owed money, Negative = owes money
	Lent       float64 // Outstanding amount others owe this member
	Borrowed   float64 // Outstanding amount this member owes others
}

// DebtEdge represents a debt from one person to another.
type DebtEdge struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount float64
}

// CalculateGroupBalances aggregates outstanding obligations into per-member
// balances and a simplified list of payments that would clear them.
//
// Algorithm:
// - For each obligation: creditor lent +amount, debtor borrowed +amount
// - Aggregate: net_balance = lent - borrowed
// - Debt list: greedy matching of the largest debtor with the largest creditor
//
// Balances are sorted by UserID so results are deterministic.
func CalculateGroupBalances(obligations []Obligation) ([]MemberBalance, []DebtEdge) {
	balances := make(map[string]*MemberBalance)
	get := func(id string) *MemberBalance {
		if _, exists := balances[id]; !exists {
			balances[id] = &MemberBalance{UserID: id}
		}
		return balances[id]
	}

	for _, o := range obligations {
		if o.DebtorID == o.CreditorID {
			continue
		}
		get(o.CreditorID).Lent += o.Amount
		get(o.DebtorID).Borrowed += o.Amount
	}

	memberBalances := make([]MemberBalance, 0, len(balances))
	for _, bal := range balances {
		bal.NetBalance = bal.Lent - bal.Borrowed
		memberBalances = append(memberBalances, *bal)
	}
	sort.Slice(memberBalances, func(i, j int) bool {
		return memberBalances[i].UserID < memberBalances[j].UserID
	})

	return memberBalances, simplifyDebts(memberBalances)
}

// simplifyDebts matches debtors with creditors to minimize transactions.
func simplifyDebts(balances []MemberBalance) []DebtEdge {
	type party struct {
		id     string
		amount float64
	}

	var debtors, creditors []party
	for _, bal := range balances {
		if bal.NetBalance >= minDebt {
			creditors = append(creditors, party{bal.UserID, bal.NetBalance})
		} else if bal.NetBalance <= -minDebt {
			debtors = append(debtors, party{bal.UserID, -bal.NetBalance})
		}
	}

	byAmount := func(p []party) func(i, j int) bool {
		return func(i, j int) bool {
			if p[i].amount != p[j].amount {
				return p[i].amount > p[j].amount
			}
			return p[i].id < p[j].id
		}
	}
	sort.Slice(debtors, byAmount(debtors))
	sort.Slice(creditors, byAmount(creditors))

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := min(debtors[i].amount, creditors[j].amount)

		if amount >= minDebt {
			edges = append(edges, DebtEdge{
				From:   debtors[i].id,
				To:     creditors[j].id,
				Amount: amount,
			})
		}

		debtors[i].amount -= amount
		creditors[j].amount -= amount

		if debtors[i].amount < minDebt {
			i++
		}
		if creditors[j].amount < minDebt {
			j++
		}
	}

	return edges
}
