package providers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

const (
	TyphoonOCRName    = "typhoon"
	TyphoonBaseURL    = "https://api.opentyphoon.ai/v1"
	TyphoonOCRModel   = "typhoon-ocr-preview"
	typhoonMaxTokens  = 16000
	typhoonRepPenalty = 1.2
)

const typhoonDefaultPrompt = `Below is an image of a document page along with its dimensions. Simply return the markdown representation of this document, presenting tables in markdown format as they naturally appear.
If the document contains images, use a placeholder like dummy.png for each image.
Your final output must be in JSON format with a single key ` + "`natural_text`" + ` containing the response.
RAW_TEXT_START
%s
RAW_TEXT_END`

const typhoonStructurePrompt = `Below is an image of a document page, along with its dimensions and possibly some raw textual content previously extracted from it. Note that the text extraction may be incomplete or partially missing. Carefully consider both the layout and any available text to reconstruct the document accurately.
Your task is to return the markdown representation of this document, presenting tables in HTML format as they naturally appear.
If the document contains images or figures, analyze them and include the tag <figure>IMAGE_ANALYSIS</figure> in the appropriate location.
Your final output must be in JSON format with a single key ` + "`natural_text`" + ` containing the response.
RAW_TEXT_START
%s
RAW_TEXT_END`

// TyphoonOCRConfig holds configuration for the Typhoon OCR client.
type TyphoonOCRConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
	RateLimit   float64       // Requests per second
	MaxRetries  int           // Attempts after the first, handled by PageOCR
	RetryDelay  time.Duration // Base delay for exponential backoff
	Timeout     time.Duration
	HTTPClient  *http.Client // Optional (tests)
}

// TyphoonOCRClient implements OCRProvider against the OpenTyphoon
// OpenAI-compatible chat completions API.
type TyphoonOCRClient struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	topP        float64
	maxTokens   int
	rateLimit   float64
	maxRetries  int
	retryDelay  time.Duration
	client      openai.Client
}

var _ OCRProvider = (*TyphoonOCRClient)(nil)

// NewTyphoonOCRClient creates a new Typhoon OCR client.
func NewTyphoonOCRClient(cfg TyphoonOCRConfig) *TyphoonOCRClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = TyphoonBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = TyphoonOCRModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.1
	}
	if cfg.TopP == 0 {
		cfg.TopP = 0.6
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = typhoonMaxTokens
	}
	if cfg.RateLimit <= 0 {
		// 60 RPM on the free tier.
		cfg.RateLimit = 1.0
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = 2 * time.Second
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(cfg.BaseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)

	return &TyphoonOCRClient{
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		topP:        cfg.TopP,
		maxTokens:   cfg.MaxTokens,
		rateLimit:   cfg.RateLimit,
		maxRetries:  cfg.MaxRetries,
		retryDelay:  cfg.RetryDelay,
		client:      client,
	}
}

// Name returns the provider identifier.
func (c *TyphoonOCRClient) Name() string {
	return TyphoonOCRName
}

// Model returns the configured model name.
func (c *TyphoonOCRClient) Model() string {
	return c.model
}

// RequestsPerSecond returns the rate limit.
func (c *TyphoonOCRClient) RequestsPerSecond() float64 {
	return c.rateLimit
}

// MaxRetries returns the maximum retry attempts.
func (c *TyphoonOCRClient) MaxRetries() int {
	return c.maxRetries
}

// RetryDelayBase returns the base delay for exponential backoff.
func (c *TyphoonOCRClient) RetryDelayBase() time.Duration {
	return c.retryDelay
}

// HealthCheck verifies the API is reachable and the key is accepted.
func (c *TyphoonOCRClient) HealthCheck(ctx context.Context) error {
	if _, err := c.client.Models.List(ctx); err != nil {
		return fmt.Errorf("typhoon models list failed: %w", mapOpenAIError(TyphoonOCRName, err))
	}
	return nil
}

// ProcessImage sends one rendered page to the OCR model and returns its markdown.
func (c *TyphoonOCRClient) ProcessImage(ctx context.Context, req *OCRRequest) (*OCRResult, error) {
	start := time.Now()

	taskType, err := ValidateTaskType(req.TaskType)
	if err != nil {
		return &OCRResult{ErrorMessage: err.Error(), ExecutionTime: time.Since(start)}, err
	}

	prompt := BuildPrompt(taskType, req.AnchorText)
	imageURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(req.Image)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(prompt),
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: imageURL}),
			}),
		},
		MaxTokens:   openai.Int(int64(c.maxTokens)),
		Temperature: openai.Float(c.temperature),
		TopP:        openai.Float(c.topP),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params,
		option.WithJSONSet("repetition_penalty", typhoonRepPenalty))
	if err != nil {
		err = mapOpenAIError(TyphoonOCRName, err)
		return &OCRResult{ErrorMessage: err.Error(), ExecutionTime: time.Since(start)}, err
	}
	if len(resp.Choices) == 0 {
		return &OCRResult{ErrorMessage: ErrEmptyResponse.Error(), ExecutionTime: time.Since(start)}, ErrEmptyResponse
	}

	text := ParseNaturalText(resp.Choices[0].Message.Content)

	return &OCRResult{
		Success: true,
		Text:    text,
		Metadata: map[string]any{
			"page":      req.PageNum,
			"task_type": taskType,
		},
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		ModelUsed:        resp.Model,
		ExecutionTime:    time.Since(start),
	}, nil
}

// BuildPrompt returns the instruction text for a task type, embedding the
// page's anchor text between the RAW_TEXT markers.
func BuildPrompt(taskType, anchorText string) string {
	if taskType == TaskStructure {
		return fmt.Sprintf(typhoonStructurePrompt, anchorText)
	}
	return fmt.Sprintf(typhoonDefaultPrompt, anchorText)
}

// ParseNaturalText pulls the natural_text field out of the model's JSON reply.
// Replies that are not JSON (or lack the field) are returned as-is.
func ParseNaturalText(content string) string {
	body := strings.TrimSpace(content)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
		body = strings.TrimSpace(body)
	}

	var reply struct {
		NaturalText *string `json:"natural_text"`
	}
	if err := json.Unmarshal([]byte(body), &reply); err != nil || reply.NaturalText == nil {
		return content
	}
	return *reply.NaturalText
}
