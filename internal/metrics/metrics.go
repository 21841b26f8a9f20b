// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordSignup()
	RecordCampaignCreated()
	RecordSessionLogged()
	RecordCareEarned(points int)
	RecordEggHatched()
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	signups          prometheus.Counter
	campaignsCreated prometheus.Counter
	sessionsLogged   prometheus.Counter
	careEarned       prometheus.Counter
	eggsHatched      prometheus.Counter
	httpStatus       *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		signups: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "caretrack_signups_total",
			Help: "サインアップの合計数",
		}),
		campaignsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "caretrack_campaigns_created_total",
			Help: "作成されたキャンペーンの合計数",
		}),
		sessionsLogged: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "caretrack_sessions_logged_total",
			Help: "記録されたプレイセッションの合計数",
		}),
		careEarned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "caretrack_care_earned_total",
			Help: "付与されたCAREポイントの合計",
		}),
		eggsHatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "caretrack_eggs_hatched_total",
			Help: "孵化したドラゴンエッグの合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caretrack_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.signups,
		c.campaignsCreated,
		c.sessionsLogged,
		c.careEarned,
		c.eggsHatched,
		c.httpStatus,
	)

	return c
}

// RecordSignup はサインアップを記録する。
func (c *Collector) RecordSignup() {
	c.signups.Inc()
}

// RecordCampaignCreated はキャンペーン作成を記録する。
func (c *Collector) RecordCampaignCreated() {
	c.campaignsCreated.Inc()
}

// RecordSessionLogged はプレイセッションの記録を記録する。
func (c *Collector) RecordSessionLogged() {
	c.sessionsLogged.Inc()
}

// RecordCareEarned は付与されたCAREポイント数を記録する。
func (c *Collector) RecordCareEarned(points int) {
	c.careEarned.Add(float64(points))
}

// RecordEggHatched はエッグの孵化を記録する。
func (c *Collector) RecordEggHatched() {
	c.eggsHatched.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
