package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

var (
	domainMetricsOnce sync.Once

	friendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_requests_total",
			Help: "Total number of friend request attempts",
		},
		[]string{"status"},
	)

	friendAcceptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_accepts_total",
			Help: "Total number of friend request accept attempts",
		},
		[]string{"status"},
	)

	friendRejectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "friend_rejects_total",
			Help: "Total number of friend request reject attempts",
		},
		[]string{"status"},
	)

	datingDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dating_decisions_total",
			Help: "Total number of dating like/pass attempts",
		},
		[]string{"status"},
	)

	datingMatchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dating_matches_total",
			Help: "Total number of dating matches created",
		},
	)

	groupJoinsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "group_joins_total",
			Help: "Total number of group join attempts",
		},
		[]string{"status"},
	)
)

func RegisterDomainMetrics() {
	domainMetricsOnce.Do(func() {
		prometheus.MustRegister(
			friendRequestsTotal,
			friendAcceptsTotal,
			friendRejectsTotal,
			datingDecisionsTotal,
			datingMatchesTotal,
			groupJoinsTotal,
		)
	})
}

func IncFriendRequest(status string) {
	RegisterDomainMetrics()
	friendRequestsTotal.WithLabelValues(status).Inc()
}

func IncFriendAccept(status string) {
	RegisterDomainMetrics()
	friendAcceptsTotal.WithLabelValues(status).Inc()
}

func IncFriendReject(status string) {
	RegisterDomainMetrics()
	friendRejectsTotal.WithLabelValues(status).Inc()
}

func IncDatingDecision(status string) {
	RegisterDomainMetrics()
	datingDecisionsTotal.WithLabelValues(status).Inc()
}

func IncDatingMatch() {
	RegisterDomainMetrics()
	datingMatchesTotal.Inc()
}

func IncGroupJoin(status string) {
	RegisterDomainMetrics()
	groupJoinsTotal.WithLabelValues(status).Inc()
}
