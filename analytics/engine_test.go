package analytics

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Manav108-hub/backend-hackathon/models"
)

// stubGenerator returns canned responses and counts calls.
type stubGenerator struct {
	calls    int
	response string
	err      error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func newTestEngine(t *testing.T, gen TextGenerator) *Engine {
	t.Helper()
	e := NewEngine(NewResponseCache(filepath.Join(t.TempDir(), "cache.json")), gen, nil)
	e.retrier.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return e
}

func TestSalesForecastCachesAndShortCircuits(t *testing.T) {
	gen := &stubGenerator{response: `{"predicted_quantity": 42, "confidence": 90, "trend": "increasing", "factors": ["Holiday demand"]}`}
	e := newTestEngine(t, gen)
	sales := salesWithQuantities(10, 12, 14)

	first, err := e.SalesForecast(context.Background(), sales)
	if err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	assert.Equal(t, 42.0, first.PredictedQuantity)
	assert.Equal(t, 1, gen.calls)

	// Identical input must be served from the cache without another AI call.
	second, err := e.SalesForecast(context.Background(), sales)
	if err != nil {
		t.Fatalf("second call failed: %v", err)
	}
	assert.Equal(t, first, second)
	assert.Equal(t, 1, gen.calls)
}

func TestSalesForecastFallsBackWhenRateLimited(t *testing.T) {
	gen := &stubGenerator{response: `{"predicted_quantity": 42}`}
	e := newTestEngine(t, gen)

	// Exhaust the bucket so the orchestrator skips the AI call entirely.
	now := time.Now()
	e.limiter.nowFunc = func() time.Time { return now }
	for i := 0; i < maxPerWindow; i++ {
		e.limiter.Admit(bucketSalesForecast)
	}

	sales := salesWithQuantities(10, 10, 10, 10, 20, 20, 20)
	forecast, err := e.SalesForecast(context.Background(), sales)
	if err != nil {
		t.Fatalf("expected fallback result, got error %v", err)
	}
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, "increasing", forecast.Trend)

	// Fallback results are not authoritative and must not be cached.
	assert.Equal(t, 0, e.cache.Len())
}

func TestSalesForecastFallsBackOnExhaustedRetries(t *testing.T) {
	gen := &stubGenerator{err: &RateLimitedError{}}
	e := newTestEngine(t, gen)

	sales := salesWithQuantities(10, 10, 10)
	forecast, err := e.SalesForecast(context.Background(), sales)
	if err != nil {
		t.Fatalf("expected fallback result, got error %v", err)
	}
	// 1 initial call + defaultMaxRetries retries, then fallback.
	assert.Equal(t, defaultMaxRetries+1, gen.calls)
	assert.Equal(t, "stable", forecast.Trend)
	assert.Equal(t, 0, e.cache.Len())
}

func TestSalesForecastFallsBackOnHardError(t *testing.T) {
	gen := &stubGenerator{err: errors.New("upstream exploded")}
	e := newTestEngine(t, gen)

	_, err := e.SalesForecast(context.Background(), salesWithQuantities(5))
	if err != nil {
		t.Fatalf("expected fallback result, got error %v", err)
	}
	// Hard errors are not retried.
	assert.Equal(t, 1, gen.calls)
}

func TestCacheFallbackPolicy(t *testing.T) {
	gen := &stubGenerator{err: &RateLimitedError{}}
	e := newTestEngine(t, gen)
	e.CacheFallback = true

	if _, err := e.SalesForecast(context.Background(), salesWithQuantities(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, 1, e.cache.Len())

	// The cached fallback now short-circuits the next identical request.
	gen.calls = 0
	if _, err := e.SalesForecast(context.Background(), salesWithQuantities(5)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, 0, gen.calls)
}

func TestSalesForecastExtractsFromMalformedResponse(t *testing.T) {
	gen := &stubGenerator{response: "The model predicts predicted_quantity: 33 with the trend decreasing overall."}
	e := newTestEngine(t, gen)

	forecast, err := e.SalesForecast(context.Background(), salesWithQuantities(5, 5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, 33.0, forecast.PredictedQuantity)
	assert.Equal(t, "decreasing", forecast.Trend)

	// Extracted results count as AI output and are cached.
	assert.Equal(t, 1, e.cache.Len())
}

func TestStockAssessmentRoundTrip(t *testing.T) {
	gen := &stubGenerator{response: `{"status": "low", "stock_ratio": 0.7, "confidence": 85, "recommendation": "Reorder key lines this week"}`}
	e := newTestEngine(t, gen)

	assessment, err := e.StockAssessment(context.Background(), []models.InventoryRecord{{CurrentStock: 70, ReorderLevel: 100}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, "low", assessment.Status)
	assert.Equal(t, 0.7, assessment.StockRatio)
}

func TestComprehensiveShortCircuitsToFallback(t *testing.T) {
	gen := &stubGenerator{response: `{"predicted_quantity": 42}`}
	e := newTestEngine(t, gen)

	now := time.Now()
	e.limiter.nowFunc = func() time.Time { return now }
	for i := 0; i < maxPerWindow; i++ {
		e.limiter.Admit(bucketComprehensive)
	}

	result, err := e.Comprehensive(context.Background(), salesWithQuantities(10, 10, 10), []models.InventoryRecord{{CurrentStock: 100, ReorderLevel: 50}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, 0, gen.calls)
	assert.Equal(t, 78.0, result.ModelAccuracy.SalesModel)
	assert.Equal(t, "optimal", result.StockAssessment.Status)
	assert.False(t, result.GeneratedAt.IsZero())
}

func TestComprehensiveRunsAllSubAnalyses(t *testing.T) {
	gen := &stubGenerator{response: `{"predicted_quantity": 42, "confidence": 90, "trend": "stable", "status": "optimal", "days_until_stockout": 30}`}
	e := newTestEngine(t, gen)

	result, err := e.Comprehensive(context.Background(), salesWithQuantities(10, 10, 10), []models.InventoryRecord{{CurrentStock: 100, ReorderLevel: 50}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// One AI call per sub-analysis with an AI-backed path.
	assert.Equal(t, 3, gen.calls)
	assert.Equal(t, 82.0, result.ModelAccuracy.InventoryModel)
}

func TestShelfImageWithoutVisionClient(t *testing.T) {
	e := newTestEngine(t, &stubGenerator{})

	_, err := e.AnalyzeShelfImage(context.Background(), []byte{0x89, 0x50})
	if !errors.Is(err, ErrVisionUnavailable) {
		t.Fatalf("expected ErrVisionUnavailable, got %v", err)
	}
}
