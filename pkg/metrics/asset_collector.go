package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/brandworks/asset-qc/internal/store/model"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// StatsSource is the part of the store the collector reads from.
type StatsSource interface {
	Statistics(ctx context.Context) (model.AssetStats, error)
}

type assetStatsCollector struct {
	source            StatsSource
	total             *prometheus.Desc
	byStage           *prometheus.Desc
	byStatus          *prometheus.Desc
	linkingActive     *prometheus.Desc
	reworks           *prometheus.Desc
	recordsByDecision *prometheus.Desc
}

func newAssetStatsCollector(s StatsSource) prometheus.Collector {
	fqName := func(name string) string {
		return fmt.Sprintf("%s_assets_%s", assetQC, name)
	}

	return &assetStatsCollector{
		source:        s,
		total:         prometheus.NewDesc(fqName("total"), "Total number of assets.", nil, nil),
		byStage:       prometheus.NewDesc(fqName("by_stage_total"), "Assets by workflow stage.", []string{"stage"}, nil),
		byStatus:      prometheus.NewDesc(fqName("by_qc_status_total"), "Assets by qc status.", []string{"status"}, nil),
		linkingActive: prometheus.NewDesc(fqName("linking_active_total"), "Assets currently eligible for linking.", nil, nil),
		reworks:       prometheus.NewDesc(fqName("reworks_total"), "Sum of rework counts over all assets.", nil, nil),
		recordsByDecision: prometheus.NewDesc(
			fmt.Sprintf("%s_review_records_total", assetQC),
			"Review records by decision.",
			[]string{"decision"},
			nil,
		),
	}
}

// RegisterAssetCollector exposes store statistics on the default registry.
func RegisterAssetCollector(s StatsSource) {
	prometheus.MustRegister(newAssetStatsCollector(s))
}

func (c *assetStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.total
	ch <- c.byStage
	ch <- c.byStatus
	ch <- c.linkingActive
	ch <- c.reworks
	ch <- c.recordsByDecision
}

func (c *assetStatsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stats, err := c.source.Statistics(ctx)
	if err != nil {
		zap.S().Named("asset_collector").Errorf("failed to collect asset statistics: %s", err)
		return
	}
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(stats.Total))
	ch <- prometheus.MustNewConstMetric(c.linkingActive, prometheus.GaugeValue, float64(stats.LinkingActive))
	ch <- prometheus.MustNewConstMetric(c.reworks, prometheus.GaugeValue, float64(stats.TotalReworks))

	for stage, total := range stats.TotalByStage {
		ch <- prometheus.MustNewConstMetric(c.byStage, prometheus.GaugeValue, float64(total), stage)
	}
	for status, total := range stats.TotalByStatus {
		ch <- prometheus.MustNewConstMetric(c.byStatus, prometheus.GaugeValue, float64(total), status)
	}
	for decision, total := range stats.TotalDecisions {
		ch <- prometheus.MustNewConstMetric(c.recordsByDecision, prometheus.GaugeValue, float64(total), decision)
	}
}
