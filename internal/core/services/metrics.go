package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus",
			Subsystem: "records",
			Name:      "created_total",
			Help:      "Records created per kind",
		},
		[]string{"kind"},
	)

	recordsDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus",
			Subsystem: "records",
			Name:      "deleted_total",
			Help:      "Records deleted per kind",
		},
		[]string{"kind"},
	)

	// deletesDenied counts deletes refused by the ownership policy
	deletesDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus",
			Subsystem: "records",
			Name:      "deletes_denied_total",
			Help:      "Deletes refused because the caller neither owns the record nor is an admin",
		},
		[]string{"kind"},
	)

	idCollisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus",
			Subsystem: "records",
			Name:      "id_collisions_total",
			Help:      "Inserts retried because the generated id was already taken",
		},
		[]string{"kind"},
	)

	loginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "campus",
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Login attempts by result",
		},
		[]string{"result"}, // success, invalid, throttled
	)
)
