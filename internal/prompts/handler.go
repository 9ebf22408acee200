// Package prompts serves the prompt analyzer and the Script Generator tool over HTTP.
package prompts

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cameo-backend/internal/brandguidelines"
	"cameo-backend/internal/llm"
	"cameo-backend/internal/prompts/analyzer"
	"cameo-backend/internal/shared/metrics"
	"cameo-backend/internal/shared/server/middleware"
	"cameo-backend/internal/shared/server/respond"
	"cameo-backend/internal/shared/telemetry"
)

const maxPromptLen = 4000

// GuidelineLookup resolves an owner-scoped brand guideline.
type GuidelineLookup interface {
	Get(ctx context.Context, userID, id string) (brandguidelines.BrandGuideline, error)
}

// Handler wires prompt endpoints. Guidelines and Random may be nil.
type Handler struct {
	Guidelines GuidelineLookup
	Writer     llm.Scriptwriter
	Random     analyzer.RandomSource
}

// NewHandler constructs a Handler. A nil writer disables script generation.
func NewHandler(guidelines GuidelineLookup, writer llm.Scriptwriter) *Handler {
	if writer == nil {
		writer = llm.PlaceholderScriptwriter{}
	}
	return &Handler{Guidelines: guidelines, Writer: writer}
}

// RegisterRoutes attaches prompt routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/prompts/analyze", h.analyze)
	rg.POST("/prompts/predict", h.predict)
	rg.GET("/prompts/suggestions/:context", h.suggestions)
	rg.POST("/prompts/script", h.script)
}

type analyzeContext struct {
	analyzer.Context
	BrandGuidelineID string `json:"brandGuidelineId"`
}

type analyzeRequest struct {
	Prompt  string          `json:"prompt"`
	Context *analyzeContext `json:"context"`
}

func (h *Handler) analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if len(req.Prompt) > maxPromptLen {
		respond.Error(c, http.StatusBadRequest, "validation_error", "prompt too long", gin.H{"maxLength": maxPromptLen})
		return
	}

	var actx *analyzer.Context
	if req.Context != nil {
		ctxCopy := req.Context.Context
		if id := strings.TrimSpace(req.Context.BrandGuidelineID); id != "" {
			guideline, ok, err := h.lookupGuideline(c, id)
			if err != nil {
				respond.Internal(c)
				return
			}
			if ok {
				ctxCopy.BrandGuidelines = guideline.ID
			}
		}
		actx = &ctxCopy
	}

	metrics.IncPromptAnalyses()
	respond.OK(c, analyzer.Analyze(req.Prompt, actx))
}

type predictRequest struct {
	Prompt   string `json:"prompt"`
	Platform string `json:"platform"`
}

func (h *Handler) predict(c *gin.Context) {
	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if len(req.Prompt) > maxPromptLen {
		respond.Error(c, http.StatusBadRequest, "validation_error", "prompt too long", gin.H{"maxLength": maxPromptLen})
		return
	}
	platform, err := analyzer.ParsePlatform(req.Platform)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown platform", gin.H{"platforms": analyzer.Platforms()})
		return
	}

	metrics.IncPromptAnalyses()
	respond.OK(c, analyzer.PredictPerformance(req.Prompt, platform, h.Random))
}

func (h *Handler) suggestions(c *gin.Context) {
	kind, err := analyzer.ParseSuggestionContext(c.Param("context"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown suggestion context", gin.H{"contexts": analyzer.SuggestionContexts()})
		return
	}
	recs, err := analyzer.ContextualSuggestions(kind)
	if err != nil {
		respond.Internal(c)
		return
	}
	respond.OK(c, gin.H{"context": kind, "suggestions": recs})
}

type scriptRequest struct {
	Prompt           string `json:"prompt"`
	CharacterName    string `json:"characterName"`
	Platform         string `json:"platform"`
	BrandGuidelineID string `json:"brandGuidelineId"`
}

func (h *Handler) script(c *gin.Context) {
	var req scriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "prompt is required", nil)
		return
	}
	if len(prompt) > maxPromptLen {
		respond.Error(c, http.StatusBadRequest, "validation_error", "prompt too long", gin.H{"maxLength": maxPromptLen})
		return
	}

	input := llm.ScriptInput{
		Prompt:        prompt,
		CharacterName: strings.TrimSpace(req.CharacterName),
	}
	if strings.TrimSpace(req.Platform) != "" {
		platform, err := analyzer.ParsePlatform(req.Platform)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "unknown platform", gin.H{"platforms": analyzer.Platforms()})
			return
		}
		input.Platform = string(platform)
	}

	var actx *analyzer.Context
	if id := strings.TrimSpace(req.BrandGuidelineID); id != "" {
		guideline, ok, err := h.lookupGuideline(c, id)
		if err != nil {
			respond.Internal(c)
			return
		}
		if ok {
			input.BrandVoice = guideline.Voice
			input.AvoidWords = guideline.AvoidWords
			actx = &analyzer.Context{BrandGuidelines: guideline.ID}
		}
	}
	analysis := analyzer.Analyze(prompt, actx)
	input.Improvements = analysis.SuggestedImprovements

	script, err := h.Writer.WriteScript(c.Request.Context(), input)
	if err != nil {
		writeScriptError(c, err)
		return
	}
	metrics.IncScriptsWritten()
	respond.OK(c, script)
}

func (h *Handler) lookupGuideline(c *gin.Context, id string) (brandguidelines.BrandGuideline, bool, error) {
	if h.Guidelines == nil {
		return brandguidelines.BrandGuideline{}, false, nil
	}
	g, err := h.Guidelines.Get(c.Request.Context(), middleware.UserIDFromContext(c), id)
	if errors.Is(err, brandguidelines.ErrNotFound) {
		return brandguidelines.BrandGuideline{}, false, nil
	}
	if err != nil {
		telemetry.Error("prompts.guideline_lookup_failed", map[string]any{"brand_guideline_id": id, "error": err.Error()})
		return brandguidelines.BrandGuideline{}, false, err
	}
	return g, true, nil
}

func writeScriptError(c *gin.Context, err error) {
	fields := map[string]any{
		"request_id": middleware.RequestIDFromContext(c),
		"error":      err.Error(),
	}
	switch {
	case errors.Is(err, llm.ErrNotConfigured):
		respond.Error(c, http.StatusServiceUnavailable, "llm_not_configured", "script generation is not available", nil)
	case errors.Is(err, context.DeadlineExceeded):
		telemetry.Error("prompts.script_timeout", fields)
		respond.Error(c, http.StatusGatewayTimeout, "llm_timeout", "script generation timed out", nil)
	case errors.Is(err, llm.ErrInvalidScript):
		telemetry.Error("prompts.script_invalid", fields)
		respond.Error(c, http.StatusBadGateway, "llm_invalid_response", "script generation returned an invalid script", nil)
	default:
		telemetry.Error("prompts.script_failed", fields)
		respond.Error(c, http.StatusBadGateway, "llm_failed", "script generation failed", nil)
	}
}
