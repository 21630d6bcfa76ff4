package services

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"car-dashboard/models"
)

// BrandPrice is the mean listing price of one brand.
type BrandPrice struct {
	Brand string
	Mean  float64
	Count int
}

// CategoryCount is the number of listings in one category.
type CategoryCount struct {
	Key   string
	Count int
}

// YearTally is the number of listings for one model year.
type YearTally struct {
	Year  int
	Count int
}

// PricePair is one (x, price) pair taken from a listing, with its dataset position.
type PricePair struct {
	Index int
	X     float64
	Price float64
}

// BrandAveragePrices groups by brand and averages prices, ascending by mean.
// Listings without a brand are excluded; NaN prices do not count towards a mean,
// and a brand with no priced listing is dropped. Means keep full precision;
// rounding is left to the renderers.
func BrandAveragePrices(listings []models.Listing) []BrandPrice {
	type acc struct {
		sum   decimal.Decimal
		count int
	}
	groups := make(map[string]*acc)
	order := make([]string, 0)

	for _, l := range listings {
		if l.Brand == "" || math.IsNaN(l.Price) {
			continue
		}
		g, ok := groups[l.Brand]
		if !ok {
			g = &acc{sum: decimal.Zero}
			groups[l.Brand] = g
			order = append(order, l.Brand)
		}
		g.sum = g.sum.Add(decimal.NewFromFloat(l.Price))
		g.count++
	}

	type mean struct {
		brand string
		value decimal.Decimal
		count int
	}
	means := make([]mean, 0, len(order))
	for _, brand := range order {
		g := groups[brand]
		means = append(means, mean{brand: brand, value: g.sum.Div(decimal.NewFromInt(int64(g.count))), count: g.count})
	}

	sort.SliceStable(means, func(i, j int) bool {
		if c := means[i].value.Cmp(means[j].value); c != 0 {
			return c < 0
		}
		return means[i].brand < means[j].brand
	})

	result := make([]BrandPrice, 0, len(means))
	for _, m := range means {
		f, _ := m.value.Float64()
		result = append(result, BrandPrice{Brand: m.brand, Mean: f, Count: m.count})
	}
	return result
}

// FuelDistribution counts listings per fuel type, descending by count.
// Ties keep first-appearance order; listings without a fuel type are excluded.
func FuelDistribution(listings []models.Listing) []CategoryCount {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, l := range listings {
		if l.FuelType == "" {
			continue
		}
		if _, ok := counts[l.FuelType]; !ok {
			order = append(order, l.FuelType)
		}
		counts[l.FuelType]++
	}

	result := make([]CategoryCount, 0, len(order))
	for _, k := range order {
		result = append(result, CategoryCount{Key: k, Count: counts[k]})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})
	return result
}

// YearCounts counts listings per model year, ascending by year.
// Listings without a year are excluded.
func YearCounts(listings []models.Listing) []YearTally {
	counts := make(map[int]int)
	for _, l := range listings {
		if !l.HasYear() {
			continue
		}
		counts[l.Year]++
	}

	result := make([]YearTally, 0, len(counts))
	for y, c := range counts {
		result = append(result, YearTally{Year: y, Count: c})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Year < result[j].Year })
	return result
}

// PricePairs projects every listing onto (x(listing), price) in dataset order.
// Pairs with a missing value are kept; callers decide whether to plot them.
func PricePairs(listings []models.Listing, x func(models.Listing) float64) []PricePair {
	pairs := make([]PricePair, len(listings))
	for i, l := range listings {
		pairs[i] = PricePair{Index: i, X: x(l), Price: l.Price}
	}
	return pairs
}

// Complete reports whether both values of the pair are present.
func (p PricePair) Complete() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Price)
}

func mileageOf(l models.Listing) float64 { return l.Mileage }

func engineOf(l models.Listing) float64 { return l.Engine }
