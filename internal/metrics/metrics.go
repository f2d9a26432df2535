package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// APIRequestsTotal API请求总数
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repairtrack_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// APIRequestDuration API请求处理时长
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "repairtrack_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// StoreOperationsTotal 存储操作次数
	StoreOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repairtrack_store_operations_total",
			Help: "Total number of entity store operations",
		},
		[]string{"backend", "collection", "op", "result"},
	)

	// TrackingLookupsTotal 物流查询次数
	TrackingLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repairtrack_tracking_lookups_total",
			Help: "Total number of shipment tracking lookups",
		},
		[]string{"carrier", "result"},
	)

	// ExportsTotal 导出次数
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "repairtrack_exports_total",
			Help: "Total number of generated exports",
		},
		[]string{"kind", "format"},
	)
)
