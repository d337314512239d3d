package calculator

import (
	"math"
	"testing"
)

func TestCalculateGroupBalances(t *testing.T) {
	t.Run("single debt", func(t *testing.T) {
		balances, debts := CalculateGroupBalances([]Obligation{
			{DebtorID: "bob", CreditorID: "alice", Amount: 50},
		})

		if len(balances) != 2 {
			t.Fatalf("expected 2 balances, got %d", len(balances))
		}
		// sorted by user ID
		if balances[0].UserID != "alice" || balances[0].NetBalance != 50 || balances[0].Lent != 50 {
			t.Errorf("alice balance = %+v", balances[0])
		}
		if balances[1].UserID != "bob" || balances[1].NetBalance != -50 || balances[1].Borrowed != 50 {
			t.Errorf("bob balance = %+v", balances[1])
		}
		if len(debts) != 1 || debts[0] != (DebtEdge{From: "bob", To: "alice", Amount: 50}) {
			t.Errorf("debts = %+v", debts)
		}
	})

	t.Run("mutual debts net out", func(t *testing.T) {
		_, debts := CalculateGroupBalances([]Obligation{
			{DebtorID: "bob", CreditorID: "alice", Amount: 30},
			{DebtorID: "alice", CreditorID: "bob", Amount: 10},
		})

		if len(debts) != 1 || debts[0].From != "bob" || math.Abs(debts[0].Amount-20) > 1e-9 {
			t.Errorf("debts = %+v, want bob->alice 20", debts)
		}
	})

	t.Run("chain is simplified", func(t *testing.T) {
		// carol owes bob 10, bob owes alice 10: carol pays alice directly
		_, debts := CalculateGroupBalances([]Obligation{
			{DebtorID: "carol", CreditorID: "bob", Amount: 10},
			{DebtorID: "bob", CreditorID: "alice", Amount: 10},
		})

		if len(debts) != 1 || debts[0] != (DebtEdge{From: "carol", To: "alice", Amount: 10}) {
			t.Errorf("debts = %+v, want carol->alice 10", debts)
		}
	})

	t.Run("rounding residue is ignored", func(t *testing.T) {
		_, debts := CalculateGroupBalances([]Obligation{
			{DebtorID: "bob", CreditorID: "alice", Amount: 50.0 / 3},
			{DebtorID: "alice", CreditorID: "bob", Amount: 16.665},
		})

		if len(debts) != 0 {
			t.Errorf("expected no debts, got %+v", debts)
		}
	})

	t.Run("empty", func(t *testing.T) {
		balances, debts := CalculateGroupBalances(nil)
		if len(balances) != 0 || len(debts) != 0 {
			t.Errorf("expected nothing, got %+v %+v", balances, debts)
		}
	})
}
