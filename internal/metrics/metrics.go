// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ArticleViews counts detail views of published articles.
	ArticleViews = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sachpatra_article_views_total",
		Help: "Detail page views of published articles.",
	})

	// AdEvents counts ad impressions and clicks by event.
	AdEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sachpatra_ad_events_total",
		Help: "Advertisement impressions and clicks.",
	}, []string{"event"})

	// TranslationCache counts cache hits, misses and dictionary fallbacks.
	TranslationCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sachpatra_translation_cache_total",
		Help: "Translation cache lookups by result.",
	}, []string{"result"})

	// FetchErrors counts content fetch failures by feed.
	FetchErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sachpatra_fetch_errors_total",
		Help: "Content fetch failures by feed.",
	}, []string{"feed"})

	// JobRuns counts scheduled job executions by job and outcome.
	JobRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sachpatra_job_runs_total",
		Help: "Scheduled job runs by outcome.",
	}, []string{"job", "outcome"})
)

func init() {
	prometheus.MustRegister(ArticleViews, AdEvents, TranslationCache, FetchErrors, JobRuns)
}

// Handler exposes the default registry for gin.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
