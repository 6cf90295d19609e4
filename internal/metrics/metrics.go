package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agrifin",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code",
		},
		[]string{"route", "method", "code"},
	)

	ApplicationsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "agrifin",
			Name:      "applications_submitted_total",
			Help:      "Loan applications persisted",
		},
	)

	ApplicationsReviewed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agrifin",
			Name:      "applications_reviewed_total",
			Help:      "Loan applications reviewed, by outcome",
		},
		[]string{"outcome"},
	)

	ScoringCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agrifin",
			Subsystem: "ml",
			Name:      "calls_total",
			Help:      "Scoring model calls by model and result",
		},
		[]string{"model", "result"},
	)

	ChatReplies = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agrifin",
			Subsystem: "chat",
			Name:      "replies_total",
			Help:      "Chat replies by language and source",
		},
		[]string{"language", "source"},
	)

	RepaymentsMarkedOverdue = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "agrifin",
			Name:      "repayments_marked_overdue_total",
			Help:      "Repayments moved from pending to overdue",
		},
	)
)
