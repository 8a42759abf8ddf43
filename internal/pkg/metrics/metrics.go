// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "credits"

// Purchase outcomes.
const (
	OutcomeSuccess             = "success"
	OutcomeItemNotFound        = "item_not_found"
	OutcomeItemInactive        = "item_inactive"
	OutcomeLevelTooLow         = "level_too_low"
	OutcomeAlreadyOwned        = "already_owned"
	OutcomeInsufficientCredits = "insufficient_credits"
	OutcomeError               = "error"
)

var (
	CreditsGranted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "granted_total",
		Help:      "Credits added to accounts, by transaction type.",
	}, []string{"type"})

	CreditsDebited = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "debited_total",
		Help:      "Credits removed from accounts, by transaction type.",
	}, []string{"type"})

	Purchases = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "purchases_total",
		Help:      "Store purchase attempts, by outcome.",
	}, []string{"outcome"})

	DuplicateCompletions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicate_completions_total",
		Help:      "Completion notifications ignored because they were already granted.",
	}, []string{"type"})

	ReconciliationMismatches = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "reconciliation_mismatches",
		Help:      "Accounts whose balances disagree with their transaction log in the last check.",
	})

	LeaderboardCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leaderboard_cache_requests_total",
		Help:      "Leaderboard cache lookups, by result.",
	}, []string{"result"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
