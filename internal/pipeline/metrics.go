package pipeline

import "github.com/prometheus/client_golang/prometheus"

type metrics struct {
	loads        *prometheus.CounterVec
	cacheHits    prometheus.Counter
	records      prometheus.Counter
	invalidDates prometheus.Counter
	scored       *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "socialdash_loads_total",
			Help: "Dataset loads by result.",
		}, []string{"result"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "socialdash_cache_hits_total",
			Help: "Loads served from the dataset cache.",
		}),
		records: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "socialdash_records_loaded_total",
			Help: "Records in freshly built datasets.",
		}),
		invalidDates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "socialdash_invalid_dates_total",
			Help: "Rows whose date could not be parsed.",
		}),
		scored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "socialdash_sentiment_scored_total",
			Help: "Records by origin of their sentiment score.",
		}, []string{"source"}),
	}
	reg.MustRegister(m.loads, m.cacheHits, m.records, m.invalidDates, m.scored)
	return m
}

const (
	resultOK             = "ok"
	resultEmpty          = "empty"
	resultParseError     = "parse_error"
	resultMissingColumns = "missing_columns"

	sourceComputed = "computed"
	sourceSupplied = "supplied"
)
