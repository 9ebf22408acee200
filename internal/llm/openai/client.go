package openai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"cameo-backend/internal/llm"
	"cameo-backend/internal/shared/telemetry"
)

const DefaultModel = openai.ChatModelGPT4oMini

// generateSchema builds a strict-mode compatible JSON schema for T.
func generateSchema[T any]() any {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

var scriptSchema = generateSchema[llm.Script]()

// Scriptwriter implements llm.Scriptwriter with OpenAI Chat Completions and structured outputs.
type Scriptwriter struct {
	client openai.Client
	model  string
}

// NewScriptwriter constructs a Scriptwriter. Extra options are appended after the API key.
func NewScriptwriter(apiKey, model string, opts ...option.RequestOption) (*Scriptwriter, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &Scriptwriter{client: openai.NewClient(opts...), model: model}, nil
}

// Message is one chat turn.
type Message struct {
	Role    string
	Content string
}

// WriteScript requests a script and retries once with a repair prompt if the
// response is not a valid script.
func (w *Scriptwriter) WriteScript(ctx context.Context, input llm.ScriptInput) (llm.Script, error) {
	user, err := llm.BuildScriptPrompt(input)
	if err != nil {
		return llm.Script{}, fmt.Errorf("build script prompt: %w", err)
	}
	messages := []Message{
		{Role: "system", Content: llm.ScriptSystemPrompt},
		{Role: "user", Content: user},
	}

	raw, err := w.complete(ctx, messages)
	if err != nil {
		return llm.Script{}, err
	}
	script, parseErr := parseScript(raw)
	if parseErr == nil {
		return script, nil
	}

	telemetry.Warn("llm.script_repair", map[string]any{"model": w.model, "error": parseErr.Error()})
	raw, err = w.complete(ctx, fixMessages(raw, parseErr))
	if err != nil {
		return llm.Script{}, err
	}
	return parseScript(raw)
}

func (w *Scriptwriter) complete(ctx context.Context, messages []Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: toParams(messages),
		Model:    w.model,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        "cameo_script",
					Description: openai.String("A structured short-form video script"),
					Schema:      scriptSchema,
					Strict:      openai.Bool(true),
				},
			},
		},
	}
	if !isGPT5(w.model) {
		params.Temperature = openai.Float(0.7)
	}

	completion, err := w.client.Chat.Completions.New(ctx, params)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", fmt.Errorf("openai error: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}
	telemetry.Info("llm.response", map[string]any{
		"model":             w.model,
		"prompt_version":    llm.ScriptPromptVersion,
		"prompt_hash":       hashPromptString(promptStringFromMessages(messages)),
		"prompt_tokens":     completion.Usage.PromptTokens,
		"completion_tokens": completion.Usage.CompletionTokens,
		"total_tokens":      completion.Usage.TotalTokens,
		"finish_reason":     completion.Choices[0].FinishReason,
	})

	content := strings.TrimSpace(completion.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai response empty content (finish reason %s)", completion.Choices[0].FinishReason)
	}
	return content, nil
}

func parseScript(raw string) (llm.Script, error) {
	var script llm.Script
	if err := json.Unmarshal([]byte(raw), &script); err != nil {
		return llm.Script{}, fmt.Errorf("%w: %v", llm.ErrInvalidScript, err)
	}
	if err := script.Validate(); err != nil {
		return llm.Script{}, err
	}
	return script, nil
}

func fixMessages(raw string, cause error) []Message {
	return []Message{
		{Role: "system", Content: llm.FixJSONSystemPrompt},
		{Role: "user", Content: fmt.Sprintf("The previous response was rejected (%v). Repair it:\n%s", cause, raw)},
	}
}

func toParams(messages []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "developer":
			out = append(out, openai.DeveloperMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

func promptStringFromMessages(messages []Message) string {
	var b strings.Builder
	for i, m := range messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.Role)
		b.WriteString(": ")
		b.WriteString(m.Content)
	}
	return b.String()
}

func hashPromptString(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

var _ llm.Scriptwriter = (*Scriptwriter)(nil)
