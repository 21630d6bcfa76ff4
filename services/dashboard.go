package services

import (
	"context"

	"car-dashboard/models"
	"car-dashboard/utils"
)

// Dashboard ties the dataset cache to the analysis engine. One Dashboard is
// created per process and passed to the CLI and HTTP layers.
type Dashboard struct {
	Datasets *DatasetService
	Engine   *Engine
	Insights *InsightService
}

// NewDashboard wires the services together.
func NewDashboard(datasets *DatasetService, logger *utils.Logger, sampleSize int) *Dashboard {
	return &Dashboard{
		Datasets: datasets,
		Engine:   NewEngine(logger, sampleSize),
		Insights: NewInsightService(logger),
	}
}

// Run loads the cached dataset and computes analysis a.
func (d *Dashboard) Run(ctx context.Context, a models.Analysis) (*models.AnalysisResult, error) {
	ds, err := d.Datasets.Get(ctx)
	if err != nil {
		return nil, err
	}
	return d.Engine.Run(ds, a)
}

// Summary loads the cached dataset and returns its overview.
func (d *Dashboard) Summary(ctx context.Context) (*models.Summary, error) {
	ds, err := d.Datasets.Get(ctx)
	if err != nil {
		return nil, err
	}
	return d.Insights.Generate(ds), nil
}
