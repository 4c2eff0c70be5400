// Package gateway turns the five AI operations into typed calls over an
// llm.Provider: prompts are rendered from templates, replies are decoded from
// JSON and checked against the expected ranges and enums.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"prepcoach/internal/apperr"
	"prepcoach/internal/llm"
	"prepcoach/internal/metrics"
	"prepcoach/internal/models"
	"prepcoach/internal/prompts"
)

// Error codes for failures that originate in the gateway rather than the provider.
const (
	CodeMalformed      = "malformed_response"
	CodeSchemaMismatch = "schema_mismatch"
	CodePrompt         = "prompt_failure"
)

type Config struct {
	Timeout     time.Duration
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	CacheTTL    time.Duration
}

func DefaultConfig() Config {
	return Config{
		Timeout:     45 * time.Second,
		MaxAttempts: 1,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    4 * time.Second,
		CacheTTL:    15 * time.Minute,
	}
}

type Gateway struct {
	provider llm.Provider
	prompts  *prompts.PromptManager
	cfg      Config
	cache    *AnalysisCache
	logger   *zap.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

func New(provider llm.Provider, pm *prompts.PromptManager, cfg Config, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &Gateway{
		provider: provider,
		prompts:  pm,
		cfg:      cfg,
		cache:    NewAnalysisCache(cfg.CacheTTL),
		logger:   logger,
		sleep:    sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Gateway) backoff(attempt int) time.Duration {
	delay := g.cfg.BaseDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > g.cfg.MaxDelay {
		delay = g.cfg.MaxDelay
	}
	return delay
}

// call renders the named template, sends it and returns the raw reply.
func (g *Gateway) call(ctx context.Context, op string, data map[string]string) (string, error) {
	prompt, err := g.prompts.BuildPrompt(op, data)
	if err != nil {
		return "", apperr.Gateway(CodePrompt, "failed to build prompt", err)
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	req := llm.Request{
		System:    prompt.System,
		Prompt:    prompt.User,
		RequestID: uuid.NewString(),
		Operation: op,
		JSON:      true,
	}

	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := g.backoff(attempt - 1)
			g.logger.Info("retrying gateway call",
				zap.String("operation", op),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay))
			if err := g.sleep(ctx, delay); err != nil {
				lastErr = err
				break
			}
		}

		resp, err := g.provider.GenerateContent(ctx, req)
		if err == nil {
			return resp.Content, nil
		}
		lastErr = err
		if !llm.Retryable(err) {
			break
		}
	}

	code := llm.ErrorCode(lastErr)
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		code = llm.ErrCodeTimeout
	}
	if code == "" {
		code = llm.ErrCodeServiceDown
	}
	return "", apperr.Gateway(code, op+" failed", lastErr)
}

// invoke runs call, decodes the reply into out and validates it, recording the outcome.
func (g *Gateway) invoke(ctx context.Context, op string, data map[string]string, out any, validate func() error) error {
	start := time.Now()
	err := g.invokeOnce(ctx, op, data, out, validate)
	outcome := "success"
	if err != nil {
		outcome = "failure"
		g.logger.Warn("gateway call failed", zap.String("operation", op), zap.Error(err))
	}
	metrics.ObserveGatewayCall(op, outcome, time.Since(start))
	return err
}

func (g *Gateway) invokeOnce(ctx context.Context, op string, data map[string]string, out any, validate func() error) error {
	content, err := g.call(ctx, op, data)
	if err != nil {
		return err
	}
	if err := decodeJSON(content, out); err != nil {
		return apperr.Gateway(CodeMalformed, op+" returned malformed JSON", err)
	}
	if validate != nil {
		if err := validate(); err != nil {
			return apperr.Gateway(CodeSchemaMismatch, op+" returned an unexpected shape", err)
		}
	}
	return nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

// GenerateQuestions asks for count questions of one difficulty.
func (g *Gateway) GenerateQuestions(ctx context.Context, profile models.CandidateProfile, difficulty models.Difficulty, count int) ([]models.Question, error) {
	data := map[string]string{
		"Name":            orDefault(profile.Name, "Not specified"),
		"Skills":          orDefault(strings.Join(profile.Skills, ", "), "General software development"),
		"ExperienceLevel": orDefault(string(profile.ExperienceLevel), "Based on resume content"),
		"Difficulty":      string(difficulty),
		"Count":           strconv.Itoa(count),
	}

	var out struct {
		Questions []models.Question `json:"questions"`
	}
	if err := g.invoke(ctx, prompts.GenerateQuestions, data, &out, func() error { return validateQuestions(out.Questions) }); err != nil {
		return nil, err
	}
	for i := range out.Questions {
		out.Questions[i].Difficulty = difficulty
	}
	return out.Questions, nil
}

func (g *Gateway) EvaluateAnswer(ctx context.Context, question, answer string, difficulty models.Difficulty) (*models.Evaluation, error) {
	data := map[string]string{
		"Question":   question,
		"Answer":     answer,
		"Difficulty": string(difficulty),
	}
	var eval models.Evaluation
	if err := g.invoke(ctx, prompts.EvaluateAnswer, data, &eval, func() error { return validateEvaluation(&eval) }); err != nil {
		return nil, err
	}
	return &eval, nil
}

// AnalyzeResume serves repeated texts from the analysis cache.
func (g *Gateway) AnalyzeResume(ctx context.Context, resumeText string) (*models.ResumeAnalysis, error) {
	if cached, ok := g.cache.Get(resumeText); ok {
		return &cached, nil
	}

	var analysis models.ResumeAnalysis
	data := map[string]string{"ResumeText": resumeText}
	if err := g.invoke(ctx, prompts.AnalyzeResume, data, &analysis, func() error { return validateAnalysis(&analysis) }); err != nil {
		return nil, err
	}
	g.cache.Cleanup()
	g.cache.Set(resumeText, analysis)
	return &analysis, nil
}

func formatAnswers(answers []models.AnswerRecord) string {
	parts := make([]string, 0, len(answers))
	for i, a := range answers {
		parts = append(parts, fmt.Sprintf("Question %d (%s): %s\nAnswer: %s", i+1, a.Difficulty, a.Question, a.Answer))
	}
	return strings.Join(parts, "\n\n")
}

func (g *Gateway) SummarizeInterview(ctx context.Context, answers []models.AnswerRecord, info models.CandidateInfo) (*models.InterviewSummary, error) {
	data := map[string]string{
		"Name":    info.Name,
		"Email":   info.Email,
		"Answers": formatAnswers(answers),
	}
	var summary models.InterviewSummary
	if err := g.invoke(ctx, prompts.SummarizeInterview, data, &summary, func() error { return validateSummary(&summary) }); err != nil {
		return nil, err
	}
	return &summary, nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (g *Gateway) PersonalizeFeedback(ctx context.Context, summary *models.InterviewSummary, info models.CandidateInfo) (*models.PersonalizedFeedback, error) {
	data := map[string]string{
		"Name":                info.Name,
		"OverallScore":        formatScore(summary.OverallScore),
		"Recommendation":      string(summary.Recommendation),
		"TechnicalScore":      formatScore(summary.TechnicalSkills.Score),
		"ProblemSolvingScore": formatScore(summary.ProblemSolving.Score),
		"CommunicationScore":  formatScore(summary.Communication.Score),
		"Strengths":           strings.Join(summary.Strengths, ", "),
		"Improvements":        strings.Join(summary.AreasForImprovement, ", "),
	}
	var feedback models.PersonalizedFeedback
	if err := g.invoke(ctx, prompts.PersonalizeFeedback, data, &feedback, nil); err != nil {
		return nil, err
	}
	return &feedback, nil
}
