package monitoring

import (
	"time"

	"springboard/internal/core/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusCollector struct {
	sessionsActiveTotal prometheus.Gauge
	sessionsTotal       prometheus.Counter
	guestSignInsTotal   prometheus.Counter
	heartbeatsTotal     prometheus.Counter

	sessionDuration   prometheus.Histogram
	resolutionLatency prometheus.Histogram

	roomMemberCount  *prometheus.GaugeVec
	resolutionsByKey *prometheus.CounterVec
}

func NewPrometheusCollector() *PrometheusCollector {
	return &PrometheusCollector{
		sessionsActiveTotal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "springboard_sessions_active_total",
			Help: "Number of currently active watch sessions",
		}),

		sessionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "springboard_sessions_total",
			Help: "Total number of watch sessions started",
		}),

		guestSignInsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "springboard_guest_sign_ins_total",
			Help: "Total number of guest identities minted for frame sessions",
		}),

		heartbeatsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "springboard_heartbeats_total",
			Help: "Total number of streaming heartbeats emitted",
		}),

		sessionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "springboard_session_duration_seconds",
			Help:    "Duration of watch sessions from activation to teardown",
			Buckets: prometheus.ExponentialBuckets(10, 2, 12),
		}),

		resolutionLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "springboard_resolution_latency_seconds",
			Help:    "Latency of playback key resolution and media start",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2},
		}),

		roomMemberCount: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "springboard_room_member_count",
			Help: "Number of members in each group watch room",
		}, []string{"room"}),

		resolutionsByKey: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "springboard_resolutions_total",
			Help: "Watch resolutions by playback key kind",
		}, []string{"key"}),
	}
}

func (p *PrometheusCollector) RecordSessionStarted() {
	p.sessionsActiveTotal.Inc()
	p.sessionsTotal.Inc()
}

func (p *PrometheusCollector) RecordSessionEnded(startedAt time.Time) {
	p.sessionsActiveTotal.Dec()
	p.sessionDuration.Observe(time.Since(startedAt).Seconds())
}

func (p *PrometheusCollector) RecordGuestSignIn() {
	p.guestSignInsTotal.Inc()
}

func (p *PrometheusCollector) RecordHeartbeat() {
	p.heartbeatsTotal.Inc()
}

func (p *PrometheusCollector) RecordResolution(key domain.PlaybackKey, latency time.Duration) {
	p.resolutionsByKey.WithLabelValues(string(key)).Inc()
	p.resolutionLatency.Observe(latency.Seconds())
}

func (p *PrometheusCollector) SetRoomMemberCount(room domain.MediaID, count int) {
	p.roomMemberCount.WithLabelValues(string(room)).Set(float64(count))
}
