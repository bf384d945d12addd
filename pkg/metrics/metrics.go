package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus метрик сервиса
type Metrics struct {
	// HTTP
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// БД
	dbQueryDuration   *prometheus.HistogramVec
	dbQueryErrors     *prometheus.CounterVec
	dbOpenConnections *prometheus.GaugeVec
	dbInUse           *prometheus.GaugeVec
	dbIdle            *prometheus.GaugeVec
	dbWaitCount       *prometheus.GaugeVec

	// Движок доступности
	windowsResolved   *prometheus.CounterVec
	slotsGenerated    *prometheus.CounterVec
	resolutionErrors  *prometheus.CounterVec
	bookingConflicts  *prometheus.CounterVec
	windowCacheLookup *prometheus.CounterVec
}

// New регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer регистрирует метрики в переданном registerer
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path"}),

		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			ConstLabels: constLabels,
		}, []string{"db", "operation"}),
		dbQueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"db", "operation"}),
		dbOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		dbWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),

		windowsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_windows_resolved_total",
			Help:        "Working windows resolved per tenant",
			ConstLabels: constLabels,
		}, []string{"tenant"}),
		slotsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_slots_generated_total",
			Help:        "Bookable slots returned per tenant",
			ConstLabels: constLabels,
		}, []string{"tenant"}),
		resolutionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_resolution_errors_total",
			Help:        "Employee/day resolutions aborted by an error",
			ConstLabels: constLabels,
		}, []string{"tenant", "kind"}),
		bookingConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_booking_conflicts_total",
			Help:        "Appointment commits rejected because the slot was taken",
			ConstLabels: constLabels,
		}, []string{"tenant"}),
		windowCacheLookup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "availability_window_cache_lookups_total",
			Help:        "Working window cache lookups by result",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.dbQueryDuration,
		m.dbQueryErrors,
		m.dbOpenConnections,
		m.dbInUse,
		m.dbIdle,
		m.dbWaitCount,
		m.windowsResolved,
		m.slotsGenerated,
		m.resolutionErrors,
		m.bookingConflicts,
		m.windowCacheLookup,
	)

	return m
}

// RecordHTTPRequest фиксирует HTTP запрос
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordDBQuery фиксирует запрос к БД
func (m *Metrics) RecordDBQuery(db, operation string, duration time.Duration, err error) {
	m.dbQueryDuration.WithLabelValues(db, operation).Observe(duration.Seconds())
	if err != nil {
		m.dbQueryErrors.WithLabelValues(db, operation).Inc()
	}
}

// SetDBPoolStats обновляет статистику пула соединений
func (m *Metrics) SetDBPoolStats(db string, open, inUse, idle int, waitCount int64) {
	m.dbOpenConnections.WithLabelValues(db).Set(float64(open))
	m.dbInUse.WithLabelValues(db).Set(float64(inUse))
	m.dbIdle.WithLabelValues(db).Set(float64(idle))
	m.dbWaitCount.WithLabelValues(db).Set(float64(waitCount))
}

func (m *Metrics) RecordWindowsResolved(tenant string, n int) {
	m.windowsResolved.WithLabelValues(tenant).Add(float64(n))
}

func (m *Metrics) RecordSlotsGenerated(tenant string, n int) {
	m.slotsGenerated.WithLabelValues(tenant).Add(float64(n))
}

func (m *Metrics) RecordResolutionError(tenant, kind string) {
	m.resolutionErrors.WithLabelValues(tenant, kind).Inc()
}

func (m *Metrics) RecordBookingConflict(tenant string) {
	m.bookingConflicts.WithLabelValues(tenant).Inc()
}

// RecordWindowCacheLookup result: hit|miss|error
func (m *Metrics) RecordWindowCacheLookup(result string) {
	m.windowCacheLookup.WithLabelValues(result).Inc()
}

// Nop пустая реализация для случаев, когда метрики выключены
type Nop struct{}

func (Nop) RecordWindowsResolved(string, int) {}
func (Nop) RecordSlotsGenerated(string, int) {}
func (Nop) RecordResolutionError(string, string) {}
func (Nop) RecordBookingConflict(string) {}
func (Nop) RecordWindowCacheLookup(string) {}
