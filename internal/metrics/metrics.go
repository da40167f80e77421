package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "psgcapi_requests_total",
		Help: "Total number of /api/psgc requests",
	})
	RequestDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "psgcapi_request_duration_ms",
		Help:    "Request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	NotFoundTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "psgcapi_not_found_total",
		Help: "Total number of lookups with no matching record",
	})
	RedisHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "psgcapi_redis_hits_total",
		Help: "Total redis cache hits",
	})
	RedisMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "psgcapi_redis_misses_total",
		Help: "Total redis cache misses",
	})
	SnapshotHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "psgcapi_snapshot_hits_total",
		Help: "Total in-memory snapshot hits",
	})
	IngestRowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "psgcapi_ingest_rows_total",
		Help: "Total rows upserted by workbook ingest",
	})
	IngestWarningsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "psgcapi_ingest_warnings_total",
		Help: "Total correspondence-code warnings collected by ingest",
	})
	SearchRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "psgcapi_search_requests_total",
		Help: "Total number of /api/search requests",
	})
	ChildrenRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "psgcapi_children_requests_total",
		Help: "Total number of /api/children requests",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(NotFoundTotal)
	prometheus.MustRegister(RedisHitsTotal)
	prometheus.MustRegister(RedisMissesTotal)
	prometheus.MustRegister(SnapshotHitsTotal)
	prometheus.MustRegister(IngestRowsTotal)
	prometheus.MustRegister(IngestWarningsTotal)
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(ChildrenRequestsTotal)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：统一暴露注册指标到 /metrics 路径，供 Prometheus 抓取；在主入口挂载。
func Handler() http.Handler { return promhttp.Handler() }
