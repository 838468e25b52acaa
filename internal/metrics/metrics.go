package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	PagesFetched  prometheus.Counter
	FetchFailures prometheus.Counter
	CardsParsed   prometheus.Counter
	RowsDropped   *prometheus.CounterVec
	SinkWrites    *prometheus.CounterVec
	Runs          *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func New(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		PagesFetched: f.NewCounter(prometheus.CounterOpts{
			Name: "etl_pages_fetched_total",
			Help: "Listing pages fetched successfully",
		}),
		FetchFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "etl_page_fetch_failures_total",
			Help: "Listing page fetches that failed and ended the crawl",
		}),
		CardsParsed: f.NewCounter(prometheus.CounterOpts{
			Name: "etl_cards_parsed_total",
			Help: "Product cards parsed into raw records",
		}),
		RowsDropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "etl_rows_dropped_total",
			Help: "Rows removed by each normalizer stage",
		}, []string{"stage"}),
		SinkWrites: f.NewCounterVec(prometheus.CounterOpts{
			Name: "etl_sink_writes_total",
			Help: "Sink write attempts by outcome",
		}, []string{"sink", "status"}),
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "etl_runs_total",
			Help: "Pipeline runs by outcome",
		}, []string{"status"}),
		gatherer: reg,
	}
}

// NewNop returns metrics bound to a throwaway registry.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
