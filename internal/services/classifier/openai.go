package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/taskpilot/taskpilot/internal/models"
	"go.uber.org/zap"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 30 * time.Second
)

const systemPrompt = `You are an intent classifier for a task manager. ` +
	`Classify the user's message into exactly one intent from this set: ` +
	`add_task, suggest_task, list_tasks, complete_task, greet, goodbye, unknown. ` +
	`Respond with valid JSON only, shaped as ` +
	`{"intent": "<label>", "task": {"description": string, "priority": 1-5, "estimated_minutes": integer}, "match": string}. ` +
	`Include "task" only for add_task (priority 1 is most urgent; estimate minutes yourself if the user gave none). ` +
	`Include "match" only for complete_task, set to the words identifying which task was finished. ` +
	`Use "unknown" when no other intent fits.`

// OpenAIClassifier implements the Classifier interface using OpenAI's API
type OpenAIClassifier struct {
	client    openai.Client
	model     string
	locale    string
	logger    *zap.Logger
	debugMode bool
}

// NewOpenAIClassifier creates a new OpenAI-backed classifier
func NewOpenAIClassifier(apiKey, model string) *OpenAIClassifier {
	return NewOpenAIClassifierWithLogger(apiKey, DefaultOpenAIBaseURL, model, nil, false)
}

// NewOpenAIClassifierWithLogger creates a new OpenAI-backed classifier with logger support
func NewOpenAIClassifierWithLogger(apiKey, baseURL, model string, logger *zap.Logger, debugMode bool) *OpenAIClassifier {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	httpClient := &http.Client{
		Timeout: DefaultTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)

	return &OpenAIClassifier{
		client:    client,
		model:     model,
		locale:    "en-US",
		logger:    logger,
		debugMode: debugMode,
	}
}

// Classify sends the user text to the model and parses the structured intent
func (c *OpenAIClassifier) Classify(ctx context.Context, text string, now time.Time) (*Result, error) {
	prompt := c.buildClassificationPrompt(text, now)
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
		openai.UserMessage(prompt),
	}
	req := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	if c.logger != nil && c.debugMode {
		c.logger.Debug("llm_api_request",
			zap.String("operation", "classify"),
			zap.String("model", c.model),
			zap.Int("prompt_length", len(prompt)),
			zap.String("prompt_preview", SanitizePrompt(prompt, true)),
		)
	}

	start := time.Now()
	resp, err := c.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)

	if err != nil {
		if c.logger != nil && c.debugMode {
			c.logger.Debug("llm_api_error",
				zap.String("operation", "classify"),
				zap.String("model", c.model),
				zap.Error(err),
				zap.Int64("latency_ms", latency.Milliseconds()),
			)
		}
		if apiErr := ExtractAPIError(err); apiErr != nil {
			return nil, fmt.Errorf("failed to classify input: %w", apiErr)
		}
		return nil, fmt.Errorf("failed to classify input: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrNoChoicesInResponse
	}
	content := resp.Choices[0].Message.Content

	if c.logger != nil && c.debugMode {
		c.logger.Debug("llm_api_response",
			zap.String("operation", "classify"),
			zap.String("model", c.model),
			zap.Int("response_length", len(content)),
			zap.String("response_preview", SanitizeResponse(content, true)),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	result, err := parseClassificationResponse(content)
	if err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *OpenAIClassifier) buildClassificationPrompt(text string, now time.Time) string {
	var b strings.Builder
	b.WriteString("Current date and time: ")
	b.WriteString(now.Format("Monday, January 2, 2006 at 15:04"))
	b.WriteString("\nLocale: ")
	b.WriteString(c.locale)
	b.WriteString("\n\nUser message:\n")
	b.WriteString(text)
	return b.String()
}

// parseClassificationResponse parses the model output into a Result. Raw
// fields use pointers so a genuinely absent field is distinguishable from a
// zero value; a model that omits the priority must not look like priority 0.
func parseClassificationResponse(content string) (*Result, error) {
	var raw struct {
		Intent string `json:"intent"`
		Task   *struct {
			Description      *string `json:"description"`
			Priority         *int    `json:"priority"`
			EstimatedMinutes *int    `json:"estimated_minutes"`
		} `json:"task"`
		Match string `json:"match"`
	}

	payload := content
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		// Some models wrap JSON in prose; extract the outermost object
		if len(payload) > 0 && payload[0] != '{' {
			start := strings.Index(payload, "{")
			end := strings.LastIndex(payload, "}")
			if start != -1 && end != -1 && end > start {
				payload = payload[start : end+1]
			}
		}
		if err := json.Unmarshal([]byte(payload), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse classification response: %w", err)
		}
	}

	result := &Result{
		Intent: models.Intent(raw.Intent),
		Match:  strings.TrimSpace(raw.Match),
	}

	if raw.Task != nil {
		if raw.Task.Description == nil || raw.Task.Priority == nil || raw.Task.EstimatedMinutes == nil {
			return nil, &SchemaError{Detail: "task fields incomplete in classification response"}
		}
		result.Task = &TaskDraft{
			Description:      strings.TrimSpace(*raw.Task.Description),
			Priority:         *raw.Task.Priority,
			EstimatedMinutes: *raw.Task.EstimatedMinutes,
		}
	}

	return result, nil
}
