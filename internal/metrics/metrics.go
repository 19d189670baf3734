// Package metrics объявляет метрики Prometheus сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метки результата операции.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultBlocked = "blocked"
)

var (
	// ContractsSaved число сохранённых договоров по типу шаблона.
	ContractsSaved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "contracts_saved_total",
		Help: "Number of saved contracts by template.",
	}, []string{"template"})

	// QuotaRejections число отказов из-за исчерпанного лимита тарифа.
	QuotaRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quota_rejections_total",
		Help: "Number of requests refused because the monthly plan limit is reached.",
	}, []string{"plan"})

	// Exports число экспортов документа по формату и результату.
	Exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "document_exports_total",
		Help: "Number of document exports by format and result.",
	}, []string{"format", "result"})

	// ExportDuration длительность формирования PDF.
	ExportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "document_pdf_export_duration_seconds",
		Help:    "Time spent rasterizing and encoding a PDF document.",
		Buckets: prometheus.DefBuckets,
	})

	// PlanUpgrades число заявок на смену тарифа по тарифу и результату.
	PlanUpgrades = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plan_upgrades_total",
		Help: "Number of plan upgrade requests by plan and result.",
	}, []string{"plan", "result"})

	// AuthEvents число событий аутентификации по типу и результату.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_events_total",
		Help: "Number of authentication events by kind and result.",
	}, []string{"event", "result"})
)
