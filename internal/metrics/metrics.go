package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	TicksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fxsession_ticks_total", Help: "Count of market ticks ingested"},
		[]string{"instrument"},
	)
	OrdersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fxsession_orders_total", Help: "Simulated orders executed"},
		[]string{"instrument", "side"},
	)
	TradesClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fxsession_trades_closed_total", Help: "Simulated trades closed"},
		[]string{"instrument", "reason"},
	)
)

func init() {
	prometheus.MustRegister(TicksTotal, OrdersTotal, TradesClosed)
}

// Serve exposes /metrics on addr. The listener runs until the process exits;
// callers that need shutdown can Close the returned server.
func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
