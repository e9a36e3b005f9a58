package analytics

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/Manav108-hub/backend-hackathon/models"
)

// The external model is asked for JSON but does not always comply. Each
// parse function first attempts a structured decode and then falls back to
// label-anchored regex and keyword extraction over the raw text, so a
// malformed response is never a hard failure.

const (
	maxExtractedFactors = 5
	maxExtractedActions = 3

	defaultTimeline   = "2-3 weeks"
	defaultConfidence = 50
)

var (
	timelinePattern = regexp.MustCompile(`(?i)(\d+(?:-\d+)?)\s*(day|week|month)s?`)
	bulletPattern   = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*(.+)$`)
	codeFence       = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

	// Priority-ordered vocabularies for enum extraction. "overstocked"
	// precedes "low" so that "below" in surrounding prose cannot shadow it.
	statusVocab = []string{"critical", "overstocked", "low", "optimal"}
	trendVocab  = []string{"increasing", "decreasing", "stable"}

	factorKeywords = []string{"demand", "season", "trend", "holiday", "promotion", "weather"}
	actionKeywords = []string{"order", "restock", "supplier", "monitor", "review"}
)

func parseSalesForecast(text string) models.SalesForecast {
	var out models.SalesForecast
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &out); err == nil {
		return normalizeSalesForecast(out)
	}

	out.PredictedQuantity, _ = extractNumber(text, "predicted_quantity")
	if c, ok := extractNumber(text, "confidence"); ok {
		out.Confidence = c
	} else {
		out.Confidence = defaultConfidence
	}
	out.Trend = extractEnum(text, trendVocab, "stable")
	out.Factors = extractList(text, factorKeywords, maxExtractedFactors)
	return normalizeSalesForecast(out)
}

func parseStockAssessment(text string) models.StockAssessment {
	var out models.StockAssessment
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &out); err == nil {
		return normalizeStockAssessment(out)
	}

	out.Status = extractEnum(text, statusVocab, "optimal")
	out.StockRatio, _ = extractNumber(text, "stock_ratio")
	if c, ok := extractNumber(text, "confidence"); ok {
		out.Confidence = c
	} else {
		out.Confidence = defaultConfidence
	}
	out.Recommendation = firstNonEmptyLine(text)
	return normalizeStockAssessment(out)
}

func parseStockoutRisk(text string) models.StockoutRisk {
	var out models.StockoutRisk
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &out); err == nil {
		return normalizeStockoutRisk(out)
	}

	out.DaysUntilStockout, _ = extractNumber(text, "days_until_stockout")
	if p, ok := extractNumber(text, "stockout_probability"); ok {
		out.StockoutProbability = p
	} else {
		out.StockoutProbability = defaultConfidence
	}
	out.PredictedVolume, _ = extractNumber(text, "predicted_volume")
	out.Timeline = extractTimeline(text)
	out.PreventionActions = extractList(text, actionKeywords, maxExtractedActions)
	return normalizeStockoutRisk(out)
}

// extractNumber finds a numeric field by its label, e.g.
// `"confidence": 82.5` or `confidence 82`.
func extractNumber(text, field string) (float64, bool) {
	re := regexp.MustCompile(`(?i)"?` + regexp.QuoteMeta(field) + `"?\s*[:=]?\s*(\d+(?:\.\d+)?)`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// extractEnum returns the first vocabulary entry found as a substring of
// text, in priority order.
func extractEnum(text string, vocab []string, def string) string {
	lower := strings.ToLower(text)
	for _, v := range vocab {
		if strings.Contains(lower, v) {
			return v
		}
	}
	return def
}

// extractList scans lines for bullet markers or keyword hits and returns up
// to max cleaned entries.
func extractList(text string, keywords []string, max int) []string {
	items := []string{}
	for _, line := range strings.Split(text, "\n") {
		if len(items) >= max {
			break
		}
		if m := bulletPattern.FindStringSubmatch(line); m != nil {
			items = append(items, strings.TrimSpace(m[1]))
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				items = append(items, trimmed)
				break
			}
		}
	}
	return items
}

func extractTimeline(text string) string {
	m := timelinePattern.FindStringSubmatch(text)
	if m == nil {
		return defaultTimeline
	}
	return m[1] + " " + strings.ToLower(m[2]) + "s"
}

// stripCodeFence unwraps a fenced block if the model wrapped its JSON in
// markdown, otherwise trims to the outermost braces.
func stripCodeFence(text string) string {
	if m := codeFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func firstNonEmptyLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

// Normalization clamps ranges and fills defaults so a result is never
// partially populated regardless of which parse path produced it.

func normalizeSalesForecast(f models.SalesForecast) models.SalesForecast {
	f.Confidence = clampPercent(f.Confidence)
	if !containsString(trendVocab, f.Trend) {
		f.Trend = "stable"
	}
	if f.Factors == nil {
		f.Factors = []string{}
	}
	if len(f.Factors) > maxExtractedFactors {
		f.Factors = f.Factors[:maxExtractedFactors]
	}
	return f
}

func normalizeStockAssessment(a models.StockAssessment) models.StockAssessment {
	a.Confidence = clampPercent(a.Confidence)
	if !containsString(statusVocab, a.Status) {
		a.Status = "optimal"
	}
	if a.Recommendation == "" {
		a.Recommendation = recommendationByStatus[a.Status]
	}
	return a
}

func normalizeStockoutRisk(r models.StockoutRisk) models.StockoutRisk {
	r.StockoutProbability = clampPercent(r.StockoutProbability)
	if r.Timeline == "" {
		r.Timeline = defaultTimeline
	}
	if r.PreventionActions == nil {
		r.PreventionActions = []string{}
	}
	if len(r.PreventionActions) > maxExtractedActions {
		r.PreventionActions = r.PreventionActions[:maxExtractedActions]
	}
	return r
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
