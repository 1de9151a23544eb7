// Package metrics registers the prometheus instruments for the trading
// loop and serves them over HTTP.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DialAttempts = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "derivbot_dial_attempts_total", Help: "Websocket connection attempts"},
	)
	PlacementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "derivbot_placements_total", Help: "Buy requests by outcome"},
		[]string{"outcome"}, // accepted | rejected
	)
	SettlementsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "derivbot_settlements_total", Help: "Settled contracts by result"},
		[]string{"result"}, // won | lost | error
	)
	CurrentStake = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "derivbot_stake", Help: "Stake committed to the most recent placement"},
	)
	ProfitTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "derivbot_profit_total", Help: "Accumulated profit across settled contracts"},
	)
)

func init() {
	prometheus.MustRegister(DialAttempts, PlacementsTotal, SettlementsTotal, CurrentStake, ProfitTotal)
}

// Serve exposes /metrics on addr in the background.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
