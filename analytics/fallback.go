package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/Manav108-hub/backend-hackathon/models"
)

// FallbackModel computes analytics results from historical records using
// fixed statistical rules. It performs no I/O, never fails, and produces the
// same result shape as the AI path. Every division guards its denominator
// with max(1, x).
type FallbackModel struct {
	// nowFunc drives the seasonal-factor calendar; tests inject a clock.
	nowFunc func() time.Time
}

// NewFallbackModel creates a fallback model on the real clock.
func NewFallbackModel() *FallbackModel {
	return &FallbackModel{nowFunc: time.Now}
}

const (
	// Accuracy placeholders reported when no prediction/actual pairs exist.
	salesModelAccuracy     = 78
	inventoryModelAccuracy = 82

	trendWindow = 7
)

var preventionActionsByBand = []struct {
	maxDays float64
	actions []string
}{
	{7, []string{"Place emergency order immediately", "Contact suppliers for expedited delivery"}},
	{14, []string{"Schedule restock order this week", "Review supplier lead times"}},
	{21, []string{"Plan restock within two weeks", "Monitor daily sales velocity"}},
	{math.Inf(1), []string{"Maintain regular ordering schedule"}},
}

var recommendationByStatus = map[string]string{
	"critical":    "Immediate restock required - stock is critically low",
	"low":         "Restock soon - stock is below reorder level",
	"overstocked": "Reduce ordering - stock is well above demand",
	"optimal":     "Stock levels are healthy - maintain current ordering",
}

// SalesForecast predicts sales volume from recent history.
func (m *FallbackModel) SalesForecast(sales []models.SalesRecord) models.SalesForecast {
	avg := avgDailySales(sales)
	trend := salesTrend(sales)

	confidence := 50.0
	if len(sales) >= trendWindow {
		confidence = 75
	} else if len(sales) > 0 {
		confidence = 60
	}

	factors := []string{}
	switch trend {
	case "increasing":
		factors = append(factors, "Recent sales are trending upward")
	case "decreasing":
		factors = append(factors, "Recent sales are trending downward")
	default:
		factors = append(factors, "Recent demand is stable")
	}
	factors = append(factors, m.SeasonalFactors()...)
	if len(factors) > 5 {
		factors = factors[:5]
	}

	return models.SalesForecast{
		PredictedQuantity: avg,
		Confidence:        confidence,
		Trend:             trend,
		Factors:           factors,
	}
}

// StockAssessment classifies the aggregate stock position against the
// average reorder level.
func (m *FallbackModel) StockAssessment(inventory []models.InventoryRecord) models.StockAssessment {
	var totalStock, totalReorder float64
	for _, r := range inventory {
		totalStock += r.CurrentStock
		totalReorder += r.ReorderLevel
	}
	avgReorder := 0.0
	if len(inventory) > 0 {
		avgReorder = totalReorder / float64(len(inventory))
	}

	ratio := totalStock / math.Max(1, avgReorder)

	var status string
	switch {
	case ratio < 0.5:
		status = "critical"
	case ratio < 1:
		status = "low"
	case ratio > 3:
		status = "overstocked"
	default:
		status = "optimal"
	}

	return models.StockAssessment{
		Status:         status,
		StockRatio:     ratio,
		Confidence:     inventoryModelAccuracy,
		Recommendation: recommendationByStatus[status],
	}
}

// StockoutRisk estimates days until stockout from current stock and average
// daily sales, with the probability banded by timeline.
func (m *FallbackModel) StockoutRisk(sales []models.SalesRecord, inventory []models.InventoryRecord) models.StockoutRisk {
	var totalStock float64
	for _, r := range inventory {
		totalStock += r.CurrentStock
	}
	avg := avgDailySales(sales)

	days := totalStock / math.Max(1, avg)

	var probability float64
	switch {
	case days < 7:
		probability = 80
	case days < 14:
		probability = 40
	case days < 21:
		probability = 20
	default:
		probability = 10
	}

	var actions []string
	for _, band := range preventionActionsByBand {
		if days < band.maxDays {
			actions = band.actions
			break
		}
	}

	return models.StockoutRisk{
		DaysUntilStockout:   days,
		StockoutProbability: probability,
		Timeline:            fmt.Sprintf("%.0f days", days),
		PredictedVolume:     avg * 30,
		PreventionActions:   actions,
	}
}

// ModelAccuracy reports the fixed accuracy placeholders.
func (m *FallbackModel) ModelAccuracy() models.ModelAccuracy {
	return models.ModelAccuracy{
		SalesModel:     salesModelAccuracy,
		InventoryModel: inventoryModelAccuracy,
	}
}

// SeasonalFactors derives calendar-driven demand factors from the current
// month. Bands are non-exclusive.
func (m *FallbackModel) SeasonalFactors() []string {
	month := m.nowFunc().Month()

	var factors []string
	if month >= time.November || month <= time.February {
		factors = append(factors, "Holiday season demand increase")
	}
	if month >= time.June && month <= time.September {
		factors = append(factors, "Summer seasonal patterns")
	}
	if month >= time.March && month <= time.May {
		factors = append(factors, "Spring restocking period")
	}
	return factors
}

// avgDailySales is the mean quantity over the last trendWindow records, or 0
// with no history.
func avgDailySales(sales []models.SalesRecord) float64 {
	window := lastN(sales, trendWindow)
	if len(window) == 0 {
		return 0
	}
	var total float64
	for _, r := range window {
		total += r.Quantity
	}
	return total / float64(len(window))
}

// salesTrend splits the trailing window into halves by index and compares
// their means with a 10% band.
func salesTrend(sales []models.SalesRecord) string {
	window := lastN(sales, trendWindow)
	if len(window) < 2 {
		return "stable"
	}

	half := (len(window) + 1) / 2
	firstAvg := meanQuantity(window[:half])
	secondAvg := meanQuantity(window[half:])

	switch {
	case secondAvg > firstAvg*1.1:
		return "increasing"
	case secondAvg < firstAvg*0.9:
		return "decreasing"
	default:
		return "stable"
	}
}

func meanQuantity(records []models.SalesRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	var total float64
	for _, r := range records {
		total += r.Quantity
	}
	return total / float64(len(records))
}

func lastN(records []models.SalesRecord, n int) []models.SalesRecord {
	if len(records) <= n {
		return records
	}
	return records[len(records)-n:]
}
