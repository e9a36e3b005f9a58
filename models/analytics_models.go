package models

import "time"

// Analytics result shapes. The statistical fallback and the AI path both
// produce these structs with every field populated, so callers never see a
// partially filled result.

// SalesForecast predicts near-term sales volume.
type SalesForecast struct {
	PredictedQuantity float64  `json:"predicted_quantity"`
	Confidence        float64  `json:"confidence"` // 0-100
	Trend             string   `json:"trend"`      // increasing | decreasing | stable
	Factors           []string `json:"factors"`
}

// StockAssessment classifies the overall stock position.
type StockAssessment struct {
	Status         string  `json:"status"` // optimal | low | critical | overstocked
	StockRatio     float64 `json:"stock_ratio"`
	Confidence     float64 `json:"confidence"`
	Recommendation string  `json:"recommendation"`
}

// StockoutRisk estimates when stock runs out and what to do about it.
type StockoutRisk struct {
	DaysUntilStockout   float64  `json:"days_until_stockout"`
	StockoutProbability float64  `json:"stockout_probability"` // 0-100
	Timeline            string   `json:"timeline"`
	PredictedVolume     float64  `json:"predicted_volume"`
	PreventionActions   []string `json:"prevention_actions"`
}

// ModelAccuracy reports historical accuracy of the prediction models.
type ModelAccuracy struct {
	SalesModel     float64 `json:"sales_model"`
	InventoryModel float64 `json:"inventory_model"`
}

// ComprehensiveAnalytics bundles the four independent sub-analyses.
type ComprehensiveAnalytics struct {
	SalesForecast   SalesForecast   `json:"sales_forecast"`
	StockAssessment StockAssessment `json:"stock_assessment"`
	StockoutRisk    StockoutRisk    `json:"stockout_risk"`
	ModelAccuracy   ModelAccuracy   `json:"model_accuracy"`
	SeasonalFactors []string        `json:"seasonal_factors"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// ShelfProduct is one product detected in a shelf photo.
type ShelfProduct struct {
	Name              string  `json:"name"`
	Confidence        float64 `json:"confidence"`
	EstimatedQuantity int     `json:"estimated_quantity"`
	Condition         string  `json:"condition"` // good | damaged | expired
}

// ShelfAnalysis is the result of the image-recognition path.
type ShelfAnalysis struct {
	Products           []ShelfProduct `json:"products"`
	ShelfOccupancy     float64        `json:"shelf_occupancy"` // 0-100
	StockoutIndicators []string       `json:"stockout_indicators"`
	VisualQualityScore float64        `json:"visual_quality_score"` // 0-100
}
