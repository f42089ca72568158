package optimizer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// optimizationDuration tracks the time taken for basket optimizations.
	optimizationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_calculation_duration_seconds",
		Help:    "Time taken for basket optimization",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	})

	// basketSize tracks the distribution of collapsed basket sizes.
	basketSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_basket_items_count",
		Help:    "Number of distinct items in optimization requests",
		Buckets: []float64{1, 5, 10, 20, 50, 100},
	})

	// missingProducts counts basket items found at no store.
	missingProducts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "optimizer_missing_products_total",
		Help: "Total number of basket items not found in any store",
	})

	// savings tracks the distribution of computed savings per basket.
	savings = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_basket_savings",
		Help:    "Savings versus undiscounted pricing per optimized basket",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
	})
)

// MetricsRecorder provides methods to record optimizer metrics.
type MetricsRecorder struct{}

// NewMetricsRecorder creates a new metrics recorder.
func NewMetricsRecorder() *MetricsRecorder {
	return &MetricsRecorder{}
}

// RecordOptimizationDuration records the duration of an optimization.
func (m *MetricsRecorder) RecordOptimizationDuration(d time.Duration) {
	optimizationDuration.Observe(d.Seconds())
}

// RecordBasketSize records the collapsed size of a basket.
func (m *MetricsRecorder) RecordBasketSize(size int) {
	basketSize.Observe(float64(size))
}

// RecordMissingProduct counts a basket item found nowhere.
func (m *MetricsRecorder) RecordMissingProduct() {
	missingProducts.Inc()
}

// RecordSavings records the savings of an optimized basket.
func (m *MetricsRecorder) RecordSavings(amount float64) {
	savings.Observe(amount)
}
