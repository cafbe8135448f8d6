package estimation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/terraincognita07/platelog/internal/models"
	"google.golang.org/genai"
)

var (
	ErrInvalidImage          = errors.New("invalid image")
	ErrEstimationUnavailable = errors.New("estimation unavailable")
)

const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultTimeout     = 20 * time.Second
	DefaultTemperature = float32(0.7)
)

type Config struct {
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float32
	// BaseURL overrides the model endpoint. Empty means the public Gemini API.
	BaseURL string
}

// GeminiEstimator turns a meal photo into a FoodDraft with one schema-constrained
// model call. It keeps no per-request state and is safe for concurrent use.
type GeminiEstimator struct {
	client      *genai.Client
	model       string
	timeout     time.Duration
	temperature float32
}

func NewGeminiEstimator(ctx context.Context, cfg Config) (*GeminiEstimator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	estimator := &GeminiEstimator{
		client:      client,
		model:       strings.TrimSpace(cfg.Model),
		timeout:     cfg.Timeout,
		temperature: cfg.Temperature,
	}
	if estimator.model == "" {
		estimator.model = DefaultModel
	}
	if estimator.timeout <= 0 {
		estimator.timeout = DefaultTimeout
	}
	if estimator.temperature <= 0 {
		estimator.temperature = DefaultTemperature
	}
	return estimator, nil
}

// Estimate validates the image, asks the model for a draft and validates the answer.
// It never returns a partially populated draft.
func (estimator *GeminiEstimator) Estimate(ctx context.Context, image []byte) (models.FoodDraft, error) {
	contentType, err := DetectImageType(image)
	if err != nil {
		return models.FoodDraft{}, err
	}

	callCtx, cancel := context.WithTimeout(ctx, estimator.timeout)
	defer cancel()

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(mealAnalysisPrompt),
			genai.NewPartFromBytes(image, contentType),
		}, genai.RoleUser),
	}
	response, err := estimator.client.Models.GenerateContent(callCtx, estimator.model, contents, &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(estimator.temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   foodDraftSchema(),
	})
	if err != nil {
		return models.FoodDraft{}, fmt.Errorf("%w: %v", ErrEstimationUnavailable, err)
	}

	text := strings.TrimSpace(response.Text())
	if text == "" {
		return models.FoodDraft{}, fmt.Errorf("%w: empty model response", ErrEstimationUnavailable)
	}

	draft, err := models.ParseFoodDraft([]byte(text))
	if err != nil {
		return models.FoodDraft{}, fmt.Errorf("%w: %v", ErrEstimationUnavailable, err)
	}
	return draft, nil
}

// Disabled stands in when no model credential is configured.
type Disabled struct{}

func (Disabled) Estimate(_ context.Context, image []byte) (models.FoodDraft, error) {
	if _, err := DetectImageType(image); err != nil {
		return models.FoodDraft{}, err
	}
	return models.FoodDraft{}, fmt.Errorf("%w: no model credential configured", ErrEstimationUnavailable)
}
