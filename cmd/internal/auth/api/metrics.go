package authapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadboard",
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Login attempts by result.",
	}, []string{"result"})

	refreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "leadboard",
		Subsystem: "auth",
		Name:      "refreshes_total",
		Help:      "Access-token refresh attempts by result.",
	}, []string{"result"})

	logoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "leadboard",
		Subsystem: "auth",
		Name:      "logouts_total",
		Help:      "Completed logouts.",
	})
)
