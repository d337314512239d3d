// Package metrics declares the Prometheus collectors exported by SharePay.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Settlement kinds.
const (
	SettleFull    = "full"
	SettlePartial = "partial"
)

// Recovery outcomes.
const (
	RecoverySucceeded = "succeeded"
	RecoveryFailed    = "failed"
)

var (
	// ExpensesTotal counts ledger mutations by operation (record, edit, delete).
	ExpensesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharepay",
		Name:      "expenses_total",
		Help:      "Expense ledger mutations by operation.",
	}, []string{"operation"})

	// SplitsCreatedTotal counts splits generated at expense creation.
	SplitsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sharepay",
		Name:      "splits_created_total",
		Help:      "Splits generated for recorded expenses.",
	})

	// SplitsSettledTotal counts split records marked settled, by kind.
	SplitsSettledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharepay",
		Name:      "splits_settled_total",
		Help:      "Split records settled, by full or partial coverage.",
	}, []string{"kind"})

	// UnappliedAmountTotal sums overpayments that found no open split.
	UnappliedAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sharepay",
		Name:      "settlement_unapplied_amount_total",
		Help:      "Sum of payment amounts discarded as overpayment.",
	})

	// RecoveryAttemptsTotal counts knowledge-based recovery attempts by outcome.
	RecoveryAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sharepay",
		Name:      "recovery_attempts_total",
		Help:      "Account recovery verifications by outcome.",
	}, []string{"outcome"})

	// RPCDuration observes Connect handler latency by procedure and code.
	RPCDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sharepay",
		Name:      "rpc_duration_seconds",
		Help:      "Connect RPC latency by procedure and result code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"procedure", "code"})
)
