package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Manav108-hub/backend-hackathon/models"
)

// TextGenerator is the generative-text collaborator. Implementations return
// a *RateLimitedError (or an HTTP 429) when the upstream quota is exceeded.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiGenerator calls the Gemini API. A client is created per call, which
// keeps the generator stateless and safe for concurrent use.
type GeminiGenerator struct {
	APIKey string
	Model  string
}

// NewGeminiGenerator creates a generator for the given API key.
func NewGeminiGenerator(apiKey string) *GeminiGenerator {
	return &GeminiGenerator{APIKey: apiKey, Model: "gemini-1.5-pro"}
}

// Generate sends prompt to Gemini and returns the first candidate's text.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.APIKey))
	if err != nil {
		return "", fmt.Errorf("failed to create AI client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.Model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if IsRateLimited(err) {
			return "", &RateLimitedError{}
		}
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from model")
	}
	return fmt.Sprint(resp.Candidates[0].Content.Parts[0]), nil
}

// Prompt builders serialize a bounded slice of records so request size stays
// within the upstream limits regardless of history length.

func salesForecastPrompt(sales []models.SalesRecord) string {
	data, _ := json.Marshal(sales)
	return fmt.Sprintf(
		`You are an analytics system for a retail supply chain. Based on the following recent sales records, predict the expected daily sales quantity. Respond with only a JSON object with keys "predicted_quantity" (number), "confidence" (0-100), "trend" (one of "increasing", "decreasing", "stable") and "factors" (up to 5 short strings).

Sales records: %s`, data)
}

func stockAssessmentPrompt(inventory []models.InventoryRecord) string {
	data, _ := json.Marshal(inventory)
	return fmt.Sprintf(
		`You are an analytics system for a retail supply chain. Based on the following inventory records, assess the overall stock position. Respond with only a JSON object with keys "status" (one of "optimal", "low", "critical", "overstocked"), "stock_ratio" (number), "confidence" (0-100) and "recommendation" (one short sentence).

Inventory records: %s`, data)
}

func stockoutRiskPrompt(sales []models.SalesRecord, inventory []models.InventoryRecord) string {
	salesData, _ := json.Marshal(sales)
	invData, _ := json.Marshal(inventory)
	return fmt.Sprintf(
		`You are an analytics system for a retail supply chain. Based on the following sales and inventory records, estimate the stockout risk. Respond with only a JSON object with keys "days_until_stockout" (number), "stockout_probability" (0-100), "timeline" (e.g. "2 weeks"), "predicted_volume" (number) and "prevention_actions" (up to 3 short strings).

Sales records: %s
Inventory records: %s`, salesData, invData)
}
