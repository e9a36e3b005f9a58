package analytics

import (
	"context"
	"encoding/base64"
	"fmt"
	"math"
	"strings"

	vision "google.golang.org/api/vision/v1"

	"github.com/Manav108-hub/backend-hackathon/models"
)

// VisionClient is the image-recognition collaborator. The three calls are
// independent; there is no retry, rate-limit, or cache wrapper around this
// path and no statistical fallback, so failures surface to the caller.
type VisionClient interface {
	LocalizeObjects(ctx context.Context, image []byte) ([]DetectedObject, error)
	DetectText(ctx context.Context, image []byte) (string, error)
	DetectLabels(ctx context.Context, image []byte) ([]DetectedLabel, error)
}

// DetectedObject is one localized object with its bounding-box area in
// pixels on a 1000x1000 reference frame.
type DetectedObject struct {
	Name       string
	Confidence float64
	Area       float64
}

// DetectedLabel is one image-wide label annotation.
type DetectedLabel struct {
	Description string
	Score       float64
}

// GoogleVisionClient calls the Cloud Vision REST API using application
// default credentials.
type GoogleVisionClient struct {
	svc *vision.Service
}

// NewGoogleVisionClient constructs the client. Missing credentials surface
// as ErrVisionUnavailable so the caller can distinguish configuration
// problems from call failures.
func NewGoogleVisionClient(ctx context.Context) (*GoogleVisionClient, error) {
	svc, err := vision.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVisionUnavailable, err)
	}
	return &GoogleVisionClient{svc: svc}, nil
}

// referenceFrame scales normalized vertices into pixel space for the
// area-based quantity estimate.
const referenceFrame = 1000.0

func (c *GoogleVisionClient) annotate(ctx context.Context, image []byte, featureType string) (*vision.AnnotateImageResponse, error) {
	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image:    &vision.Image{Content: base64.StdEncoding.EncodeToString(image)},
			Features: []*vision.Feature{{Type: featureType}},
		}},
	}
	resp, err := c.svc.Images.Annotate(req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("vision %s call failed: %w", featureType, err)
	}
	if len(resp.Responses) == 0 {
		return nil, fmt.Errorf("vision %s call returned no response", featureType)
	}
	if apiErr := resp.Responses[0].Error; apiErr != nil {
		return nil, fmt.Errorf("vision %s call failed: %s", featureType, apiErr.Message)
	}
	return resp.Responses[0], nil
}

func (c *GoogleVisionClient) LocalizeObjects(ctx context.Context, image []byte) ([]DetectedObject, error) {
	resp, err := c.annotate(ctx, image, "OBJECT_LOCALIZATION")
	if err != nil {
		return nil, err
	}

	objects := make([]DetectedObject, 0, len(resp.LocalizedObjectAnnotations))
	for _, ann := range resp.LocalizedObjectAnnotations {
		objects = append(objects, DetectedObject{
			Name:       ann.Name,
			Confidence: ann.Score,
			Area:       boundingArea(ann.BoundingPoly),
		})
	}
	return objects, nil
}

func (c *GoogleVisionClient) DetectText(ctx context.Context, image []byte) (string, error) {
	resp, err := c.annotate(ctx, image, "TEXT_DETECTION")
	if err != nil {
		return "", err
	}
	if resp.FullTextAnnotation != nil {
		return resp.FullTextAnnotation.Text, nil
	}
	if len(resp.TextAnnotations) > 0 {
		return resp.TextAnnotations[0].Description, nil
	}
	return "", nil
}

func (c *GoogleVisionClient) DetectLabels(ctx context.Context, image []byte) ([]DetectedLabel, error) {
	resp, err := c.annotate(ctx, image, "LABEL_DETECTION")
	if err != nil {
		return nil, err
	}

	labels := make([]DetectedLabel, 0, len(resp.LabelAnnotations))
	for _, ann := range resp.LabelAnnotations {
		labels = append(labels, DetectedLabel{Description: ann.Description, Score: ann.Score})
	}
	return labels, nil
}

// boundingArea computes the bounding-box extent of a polygon in reference
// pixels.
func boundingArea(poly *vision.BoundingPoly) float64 {
	if poly == nil || len(poly.NormalizedVertices) == 0 {
		return 0
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range poly.NormalizedVertices {
		minX = math.Min(minX, v.X)
		maxX = math.Max(maxX, v.X)
		minY = math.Min(minY, v.Y)
		maxY = math.Max(maxY, v.Y)
	}
	return (maxX - minX) * referenceFrame * (maxY - minY) * referenceFrame
}

// Shelf-analysis derivation constants.
const (
	minObjectConfidence = 0.5
	quantityAreaDivisor = 10000
	fullShelfCount      = 20
)

var retailLabelKeywords = []string{"shelf", "product", "retail", "store", "grocery", "packaging"}

// analyzeShelf derives the shelf analysis from the three raw annotation
// sets.
func analyzeShelf(objects []DetectedObject, text string, labels []DetectedLabel) models.ShelfAnalysis {
	condition := shelfCondition(labels)

	products := []models.ShelfProduct{}
	for _, obj := range objects {
		if obj.Confidence < minObjectConfidence {
			continue
		}
		qty := int(obj.Area / quantityAreaDivisor)
		if qty < 1 {
			qty = 1
		}
		products = append(products, models.ShelfProduct{
			Name:              obj.Name,
			Confidence:        obj.Confidence,
			EstimatedQuantity: qty,
			Condition:         condition,
		})
	}

	occupancy := math.Round(100 * float64(len(products)) / fullShelfCount)
	if occupancy > 100 {
		occupancy = 100
	}

	return models.ShelfAnalysis{
		Products:           products,
		ShelfOccupancy:     occupancy,
		StockoutIndicators: stockoutIndicators(text, labels),
		VisualQualityScore: visualQuality(objects, labels),
	}
}

// shelfCondition classifies from label keywords, damaged taking priority
// over expired.
func shelfCondition(labels []DetectedLabel) string {
	expired := false
	for _, l := range labels {
		desc := strings.ToLower(l.Description)
		if strings.Contains(desc, "damaged") {
			return "damaged"
		}
		if strings.Contains(desc, "expired") {
			expired = true
		}
	}
	if expired {
		return "expired"
	}
	return "good"
}

func stockoutIndicators(text string, labels []DetectedLabel) []string {
	indicators := []string{}
	for _, l := range labels {
		desc := strings.ToLower(l.Description)
		if strings.Contains(desc, "empty") || strings.Contains(desc, "bare") {
			indicators = append(indicators, "Empty shelf space detected: "+l.Description)
		}
	}
	lowerText := strings.ToLower(text)
	if strings.Contains(lowerText, "out of stock") {
		indicators = append(indicators, `Signage reads "out of stock"`)
	}
	if strings.Contains(lowerText, "sold out") {
		indicators = append(indicators, `Signage reads "sold out"`)
	}
	return indicators
}

// visualQuality is a weighted score: 40% from the high-confidence detection
// ratio, up to 30 from retail-keyword label hits, plus a flat 30 base.
func visualQuality(objects []DetectedObject, labels []DetectedLabel) float64 {
	highConfRatio := 0.0
	if len(objects) > 0 {
		confident := 0
		for _, obj := range objects {
			if obj.Confidence >= minObjectConfidence {
				confident++
			}
		}
		highConfRatio = float64(confident) / float64(len(objects))
	}

	retailHits := 0
	for _, l := range labels {
		desc := strings.ToLower(l.Description)
		for _, kw := range retailLabelKeywords {
			if strings.Contains(desc, kw) {
				retailHits++
				break
			}
		}
	}

	score := 40*highConfRatio + math.Min(30, float64(retailHits)*10) + 30
	return math.Min(100, score)
}
