package services

import (
	"math"

	"car-dashboard/models"
	"car-dashboard/utils"
)

// InsightService computes the dataset overview shown above each analysis.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate summarises ds. Missing prices and years are left out of their figures.
func (s *InsightService) Generate(ds *models.Dataset) *models.Summary {
	report := &models.Summary{}
	if ds.Len() == 0 {
		return report
	}

	report.TotalListings = ds.Len()
	brands := make(map[string]struct{})
	var total float64

	for i := range ds.Listings {
		l := &ds.Listings[i]
		if l.Brand != "" {
			brands[l.Brand] = struct{}{}
		}
		if l.HasYear() {
			if report.EarliestYear == 0 || l.Year < report.EarliestYear {
				report.EarliestYear = l.Year
			}
			if l.Year > report.LatestYear {
				report.LatestYear = l.Year
			}
		}
		if math.IsNaN(l.Price) {
			continue
		}

		if report.PricedListing == 0 {
			report.MinPrice = l.Price
			report.MaxPrice = l.Price
			report.MostExpensive = copyListing(l)
		}
		report.PricedListing++
		total += l.Price
		if l.Price < report.MinPrice {
			report.MinPrice = l.Price
		}
		if l.Price > report.MaxPrice {
			report.MaxPrice = l.Price
			report.MostExpensive = copyListing(l)
		}
	}

	report.Brands = len(brands)
	if report.PricedListing > 0 {
		report.AveragePrice = round2(total / float64(report.PricedListing))
		report.MinPrice = round2(report.MinPrice)
		report.MaxPrice = round2(report.MaxPrice)
	}

	s.logger.Debug("[insights] %d listings, %d brands, %d priced",
		report.TotalListings, report.Brands, report.PricedListing)
	return report
}

// copyListing keeps the summary from aliasing the cached dataset.
func copyListing(l *models.Listing) *models.Listing {
	c := *l
	return &c
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
