package analytics

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// stubVisionClient returns canned annotations.
type stubVisionClient struct {
	objects []DetectedObject
	text    string
	labels  []DetectedLabel
	err     error
}

func (s *stubVisionClient) LocalizeObjects(ctx context.Context, image []byte) ([]DetectedObject, error) {
	return s.objects, s.err
}

func (s *stubVisionClient) DetectText(ctx context.Context, image []byte) (string, error) {
	return s.text, s.err
}

func (s *stubVisionClient) DetectLabels(ctx context.Context, image []byte) ([]DetectedLabel, error) {
	return s.labels, s.err
}

func TestAnalyzeShelfQuantityFromArea(t *testing.T) {
	result := analyzeShelf([]DetectedObject{
		{Name: "Cereal box", Confidence: 0.9, Area: 45000},
		{Name: "Bottle", Confidence: 0.8, Area: 2000},
	}, "", nil)

	if len(result.Products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(result.Products))
	}
	assert.Equal(t, 4, result.Products[0].EstimatedQuantity)
	// Small boxes round down to zero; the floor is one visible unit.
	assert.Equal(t, 1, result.Products[1].EstimatedQuantity)
}

func TestAnalyzeShelfFiltersLowConfidence(t *testing.T) {
	result := analyzeShelf([]DetectedObject{
		{Name: "Cereal box", Confidence: 0.9, Area: 10000},
		{Name: "Blur", Confidence: 0.3, Area: 10000},
	}, "", nil)

	if len(result.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(result.Products))
	}
	assert.Equal(t, "Cereal box", result.Products[0].Name)
}

func TestAnalyzeShelfOccupancy(t *testing.T) {
	objects := make([]DetectedObject, 5)
	for i := range objects {
		objects[i] = DetectedObject{Name: "Item", Confidence: 0.9, Area: 10000}
	}
	result := analyzeShelf(objects, "", nil)
	assert.Equal(t, 25.0, result.ShelfOccupancy)

	objects = make([]DetectedObject, 30)
	for i := range objects {
		objects[i] = DetectedObject{Name: "Item", Confidence: 0.9, Area: 10000}
	}
	result = analyzeShelf(objects, "", nil)
	assert.Equal(t, 100.0, result.ShelfOccupancy)
}

func TestShelfConditionPriority(t *testing.T) {
	assert.Equal(t, "good", shelfCondition([]DetectedLabel{{Description: "Shelf"}}))
	assert.Equal(t, "expired", shelfCondition([]DetectedLabel{{Description: "Expired goods"}}))
	// Damaged wins even when expired labels appear first.
	assert.Equal(t, "damaged", shelfCondition([]DetectedLabel{
		{Description: "Expired goods"},
		{Description: "Damaged packaging"},
	}))
}

func TestStockoutIndicators(t *testing.T) {
	indicators := stockoutIndicators("Aisle 4: OUT OF STOCK until Friday", []DetectedLabel{
		{Description: "Empty shelf"},
		{Description: "Grocery store"},
	})
	if len(indicators) != 2 {
		t.Fatalf("expected 2 indicators, got %d: %v", len(indicators), indicators)
	}

	assert.Empty(t, stockoutIndicators("Fresh produce daily", []DetectedLabel{{Description: "Shelf"}}))
}

func TestVisualQualityScore(t *testing.T) {
	// All objects confident, three retail labels: 40 + 30 + 30 = 100.
	score := visualQuality(
		[]DetectedObject{{Confidence: 0.9}, {Confidence: 0.8}},
		[]DetectedLabel{{Description: "Shelf"}, {Description: "Retail store"}, {Description: "Product packaging"}, {Description: "Grocery"}},
	)
	assert.Equal(t, 100.0, score)

	// No objects, no retail labels: just the base score.
	assert.Equal(t, 30.0, visualQuality(nil, []DetectedLabel{{Description: "Sky"}}))

	// Half the objects confident, one retail label: 20 + 10 + 30.
	score = visualQuality(
		[]DetectedObject{{Confidence: 0.9}, {Confidence: 0.2}},
		[]DetectedLabel{{Description: "Shelf"}},
	)
	assert.Equal(t, 60.0, score)
}

func TestAnalyzeShelfImageThroughEngine(t *testing.T) {
	stub := &stubVisionClient{
		objects: []DetectedObject{{Name: "Cereal box", Confidence: 0.9, Area: 20000}},
		text:    "sold out",
		labels:  []DetectedLabel{{Description: "Damaged packaging"}},
	}
	e := NewEngine(NewResponseCache(filepath.Join(t.TempDir(), "cache.json")), &stubGenerator{}, stub)

	result, err := e.AnalyzeShelfImage(context.Background(), []byte{0x89, 0x50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, "damaged", result.Products[0].Condition)
	assert.Equal(t, 2, result.Products[0].EstimatedQuantity)
	assert.Contains(t, result.StockoutIndicators, `Signage reads "sold out"`)
}

func TestAnalyzeShelfImageSurfacesVisionErrors(t *testing.T) {
	wantErr := errors.New("quota exceeded")
	e := NewEngine(NewResponseCache(filepath.Join(t.TempDir(), "cache.json")), &stubGenerator{}, &stubVisionClient{err: wantErr})

	_, err := e.AnalyzeShelfImage(context.Background(), []byte{0x89})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected vision error to surface, got %v", err)
	}
}

func TestBoundingArea(t *testing.T) {
	assert.Equal(t, 0.0, boundingArea(nil))
}
