package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/lshigami/codeduel/config"
	"github.com/lshigami/codeduel/internal/apperror"
	"github.com/lshigami/codeduel/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

type GenerateRequest struct {
	Challenge  *model.Challenge
	LanguageID int
	Skill      SkillLevel
}

// AISolutionService produces the AI competitor's program for a challenge.
type AISolutionService interface {
	GenerateSolution(ctx context.Context, req GenerateRequest) (string, error)
}

type geminiSolutionService struct {
	client  *genai.GenerativeModel
	timeout time.Duration
}

func NewGeminiSolutionService(cfg *config.Config) (AISolutionService, error) {
	if cfg.AI.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. AI opponents will report generation failures.")
		return &geminiSolutionService{timeout: cfg.AI.Timeout}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.AI.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	m := client.GenerativeModel(cfg.AI.Model)
	m.SetTemperature(0.2)
	return &geminiSolutionService{client: m, timeout: cfg.AI.Timeout}, nil
}

var errAINotConfigured = errors.New("AI solution generator is not configured")

func (s *geminiSolutionService) GenerateSolution(ctx context.Context, req GenerateRequest) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("%w: %w", errAINotConfigured, apperror.ErrUpstreamFailure)
	}
	prompt, err := buildSolutionPrompt(req)
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.GenerateContent(callCtx, genai.Text(prompt))
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("gemini did not answer within %s: %w", s.timeout, apperror.ErrUpstreamTimeout)
		}
		log.Error().Err(err).Str("challengeID", req.Challenge.ID).Msg("Gemini API error during solution generation")
		return "", fmt.Errorf("gemini generate content: %w", apperror.ErrUpstreamFailure)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates: %w", apperror.ErrUpstreamFailure)
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}
	code := extractCode(text.String())
	if code == "" {
		return "", fmt.Errorf("gemini returned no code: %w", apperror.ErrUpstreamFailure)
	}
	return code, nil
}

var skillInstructions = map[SkillLevel]string{
	SkillBeginner:     "Write it the way a beginner would: straightforward and readable. A naive approach is fine as long as it is correct.",
	SkillIntermediate: "Write a solid, idiomatic solution with reasonable efficiency.",
	SkillExpert:       "Write an expert solution that is optimal for the metric this challenge is judged on.",
}

var categoryInstructions = map[string]string{
	model.CategoryCodeGolf:           "The challenge is judged on source length: shorter code wins.",
	model.CategoryTimeTrial:          "The challenge is judged on execution time: faster code wins.",
	model.CategoryMemoryOptimization: "The challenge is judged on peak memory: lower memory wins.",
	model.CategoryDebugging:          "The starter code contains bugs. Fix them; faster code wins ties.",
}

func buildSolutionPrompt(req GenerateRequest) (string, error) {
	if req.Challenge == nil {
		return "", fmt.Errorf("challenge is required: %w", apperror.ErrValidation)
	}
	language, ok := LanguageName(req.LanguageID)
	if !ok {
		return "", fmt.Errorf("unsupported language id %d: %w", req.LanguageID, apperror.ErrValidation)
	}
	c := req.Challenge

	var b strings.Builder
	b.WriteString("You are competing against a human programmer in a coding challenge.\n")
	fmt.Fprintf(&b, "Language: %s\n", language)
	fmt.Fprintf(&b, "Skill level: %s. %s\n", req.Skill, skillInstructions[req.Skill])
	if hint, ok := categoryInstructions[c.PrimaryCategory()]; ok {
		b.WriteString(hint)
		b.WriteString("\n")
	}
	b.WriteString("\nProblem: ")
	b.WriteString(c.Title)
	b.WriteString("\n---\n")
	b.WriteString(c.Description)
	b.WriteString("\n---\n")
	if c.StarterCode != "" {
		b.WriteString("Starter code:\n```\n")
		b.WriteString(c.StarterCode)
		b.WriteString("\n```\n")
	}
	if c.SampleInput != "" || c.SampleOutput != "" {
		fmt.Fprintf(&b, "Sample input:\n%s\nSample output:\n%s\n", c.SampleInput, c.SampleOutput)
	}
	b.WriteString("\nThe program reads from standard input and writes to standard output.\n")
	b.WriteString("Reply with only the complete program in a single fenced code block, no explanation.\n")
	return b.String(), nil
}

// extractCode returns the first fenced block in a reply, or the whole
// trimmed reply when it has no fence.
func extractCode(reply string) string {
	start := strings.Index(reply, "```")
	if start == -1 {
		return strings.TrimSpace(reply)
	}
	rest := reply[start+3:]
	nl := strings.Index(rest, "\n")
	if end := strings.Index(rest, "```"); end != -1 && (nl == -1 || end < nl) {
		// single-line fence
		return strings.TrimSpace(rest[:end])
	}
	if nl != -1 {
		// drop the language tag on the opening fence
		rest = rest[nl+1:]
	}
	if end := strings.Index(rest, "```"); end != -1 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
