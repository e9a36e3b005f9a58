package analytics

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Manav108-hub/backend-hackathon/models"
)

// Rate-limit buckets, one per analysis kind plus a global bucket for the
// comprehensive fan-out.
const (
	bucketSalesForecast = "sales_forecast"
	bucketStockLevels   = "stock_levels"
	bucketStockoutRisk  = "stockout_risk"
	bucketComprehensive = "comprehensive"
)

// maxPromptRecords bounds the raw payload sent to the model to control
// request size and cost.
const maxPromptRecords = 20

// Engine orchestrates one analytics request: cache check, rate check, AI
// attempt through the retrier, parse/extract, then cache the result. Any
// failure on the AI path routes to the statistical fallback, so text
// analytics always return a fully populated result.
type Engine struct {
	cache     *ResponseCache
	limiter   *RateLimiter
	retrier   *Retrier
	generator TextGenerator
	vision    VisionClient
	fallback  *FallbackModel

	// CacheFallback controls whether fallback results populate the cache.
	// Off by default: fallback output is not authoritative AI output.
	CacheFallback bool

	nowFunc func() time.Time
}

// NewEngine wires the orchestrator with default limiter, retrier and
// fallback model. vision may be nil when credentials are absent; only the
// shelf-image path requires it.
func NewEngine(cache *ResponseCache, generator TextGenerator, vision VisionClient) *Engine {
	return &Engine{
		cache:     cache,
		limiter:   NewRateLimiter(),
		retrier:   NewRetrier(),
		generator: generator,
		vision:    vision,
		fallback:  NewFallbackModel(),
		nowFunc:   time.Now,
	}
}

// SalesForecast predicts sales volume for the given history.
func (e *Engine) SalesForecast(ctx context.Context, sales []models.SalesRecord) (models.SalesForecast, error) {
	recent := lastN(sales, maxPromptRecords)
	key := MakeKey(bucketSalesForecast, recent)

	var cached models.SalesForecast
	if e.cache.GetInto(key, &cached) {
		return cached, nil
	}

	if !e.limiter.Admit(bucketSalesForecast) {
		log.Printf("Rate limit reached for %s, using fallback model", bucketSalesForecast)
		return withFallbackCache(e, key, e.fallback.SalesForecast(sales)), nil
	}

	var out models.SalesForecast
	err := e.retrier.Execute(ctx, func() error {
		text, err := e.generator.Generate(ctx, salesForecastPrompt(recent))
		if err != nil {
			return err
		}
		out = parseSalesForecast(text)
		return nil
	})
	if err != nil {
		log.Printf("AI call failed for %s (key %s), using fallback model: %v", bucketSalesForecast, key, err)
		return withFallbackCache(e, key, e.fallback.SalesForecast(sales)), nil
	}

	e.putCache(bucketSalesForecast, key, out)
	return out, nil
}

// StockAssessment classifies the current stock position.
func (e *Engine) StockAssessment(ctx context.Context, inventory []models.InventoryRecord) (models.StockAssessment, error) {
	recent := inventory
	if len(recent) > maxPromptRecords {
		recent = recent[len(recent)-maxPromptRecords:]
	}
	key := MakeKey(bucketStockLevels, recent)

	var cached models.StockAssessment
	if e.cache.GetInto(key, &cached) {
		return cached, nil
	}

	if !e.limiter.Admit(bucketStockLevels) {
		log.Printf("Rate limit reached for %s, using fallback model", bucketStockLevels)
		return withFallbackCache(e, key, e.fallback.StockAssessment(inventory)), nil
	}

	var out models.StockAssessment
	err := e.retrier.Execute(ctx, func() error {
		text, err := e.generator.Generate(ctx, stockAssessmentPrompt(recent))
		if err != nil {
			return err
		}
		out = parseStockAssessment(text)
		return nil
	})
	if err != nil {
		log.Printf("AI call failed for %s (key %s), using fallback model: %v", bucketStockLevels, key, err)
		return withFallbackCache(e, key, e.fallback.StockAssessment(inventory)), nil
	}

	e.putCache(bucketStockLevels, key, out)
	return out, nil
}

// StockoutRisk estimates time to stockout and expected volume.
func (e *Engine) StockoutRisk(ctx context.Context, sales []models.SalesRecord, inventory []models.InventoryRecord) (models.StockoutRisk, error) {
	recentSales := lastN(sales, maxPromptRecords)
	recentInv := inventory
	if len(recentInv) > maxPromptRecords {
		recentInv = recentInv[len(recentInv)-maxPromptRecords:]
	}
	key := MakeKey(bucketStockoutRisk, struct {
		Sales     []models.SalesRecord     `json:"sales"`
		Inventory []models.InventoryRecord `json:"inventory"`
	}{recentSales, recentInv})

	var cached models.StockoutRisk
	if e.cache.GetInto(key, &cached) {
		return cached, nil
	}

	if !e.limiter.Admit(bucketStockoutRisk) {
		log.Printf("Rate limit reached for %s, using fallback model", bucketStockoutRisk)
		return withFallbackCache(e, key, e.fallback.StockoutRisk(sales, inventory)), nil
	}

	var out models.StockoutRisk
	err := e.retrier.Execute(ctx, func() error {
		text, err := e.generator.Generate(ctx, stockoutRiskPrompt(recentSales, recentInv))
		if err != nil {
			return err
		}
		out = parseStockoutRisk(text)
		return nil
	})
	if err != nil {
		log.Printf("AI call failed for %s (key %s), using fallback model: %v", bucketStockoutRisk, key, err)
		return withFallbackCache(e, key, e.fallback.StockoutRisk(sales, inventory)), nil
	}

	e.putCache(bucketStockoutRisk, key, out)
	return out, nil
}

// Comprehensive runs the four independent sub-analyses concurrently. A
// denied global bucket short-circuits all four to the fallback model at
// once.
func (e *Engine) Comprehensive(ctx context.Context, sales []models.SalesRecord, inventory []models.InventoryRecord) (models.ComprehensiveAnalytics, error) {
	result := models.ComprehensiveAnalytics{
		ModelAccuracy:   e.fallback.ModelAccuracy(),
		SeasonalFactors: e.fallback.SeasonalFactors(),
		GeneratedAt:     e.nowFunc(),
	}

	if !e.limiter.Admit(bucketComprehensive) {
		log.Printf("Rate limit reached for %s, using fallback model for all sub-analyses", bucketComprehensive)
		result.SalesForecast = e.fallback.SalesForecast(sales)
		result.StockAssessment = e.fallback.StockAssessment(inventory)
		result.StockoutRisk = e.fallback.StockoutRisk(sales, inventory)
		return result, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		result.SalesForecast, err = e.SalesForecast(gctx, sales)
		return err
	})
	g.Go(func() error {
		var err error
		result.StockAssessment, err = e.StockAssessment(gctx, inventory)
		return err
	})
	g.Go(func() error {
		var err error
		result.StockoutRisk, err = e.StockoutRisk(gctx, sales, inventory)
		return err
	})
	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

// AnalyzeShelfImage runs the three vision calls and derives the shelf
// analysis. This path deliberately has no rate limiter, retrier, cache or
// statistical fallback; errors surface to the caller.
func (e *Engine) AnalyzeShelfImage(ctx context.Context, image []byte) (models.ShelfAnalysis, error) {
	if e.vision == nil {
		return models.ShelfAnalysis{}, ErrVisionUnavailable
	}

	objects, err := e.vision.LocalizeObjects(ctx, image)
	if err != nil {
		return models.ShelfAnalysis{}, err
	}
	text, err := e.vision.DetectText(ctx, image)
	if err != nil {
		return models.ShelfAnalysis{}, err
	}
	labels, err := e.vision.DetectLabels(ctx, image)
	if err != nil {
		return models.ShelfAnalysis{}, err
	}

	return analyzeShelf(objects, text, labels), nil
}

func (e *Engine) putCache(operation, key string, value any) {
	if err := e.cache.Put(key, value); err != nil {
		log.Printf("Failed to cache %s result (key %s): %v", operation, key, err)
	}
}

// withFallbackCache applies the fallback caching policy and returns the
// fallback result unchanged.
func withFallbackCache[T any](e *Engine, key string, result T) T {
	if e.CacheFallback {
		if err := e.cache.Put(key, result); err != nil {
			log.Printf("Failed to cache fallback result (key %s): %v", key, err)
		}
	}
	return result
}
