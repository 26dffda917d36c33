package game

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gamesStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trivia_games_started_total",
		Help: "Game sessions started, by difficulty tier.",
	}, []string{"tier"})

	gamesCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trivia_games_completed_total",
		Help: "Game sessions played to completion, by difficulty tier.",
	}, []string{"tier"})

	catalogFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trivia_catalog_fetch_failures_total",
		Help: "Failed attempts to resolve the country catalog.",
	})
)
