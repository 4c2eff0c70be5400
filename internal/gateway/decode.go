package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"prepcoach/internal/models"
)

// stripFences removes a surrounding Markdown code fence, if any.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func decodeJSON(content string, v any) error {
	return json.Unmarshal([]byte(stripFences(content)), v)
}

func inRange(name string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return fmt.Errorf("%s %v out of range [%v, %v]", name, v, lo, hi)
	}
	return nil
}

func validateQuestions(qs []models.Question) error {
	if len(qs) == 0 {
		return fmt.Errorf("no questions returned")
	}
	for i, q := range qs {
		if strings.TrimSpace(q.Question) == "" {
			return fmt.Errorf("question %d has no text", i)
		}
	}
	return nil
}

func validateEvaluation(e *models.Evaluation) error {
	if err := inRange("score", e.Score, 0, 100); err != nil {
		return err
	}
	if err := inRange("technicalAccuracy", e.TechnicalAccuracy, 0, 10); err != nil {
		return err
	}
	if err := inRange("completeness", e.Completeness, 0, 10); err != nil {
		return err
	}
	return inRange("clarity", e.Clarity, 0, 10)
}

func validateAnalysis(a *models.ResumeAnalysis) error {
	if a.ExperienceLevel != "" && !a.ExperienceLevel.Valid() {
		return fmt.Errorf("unknown experience level %q", a.ExperienceLevel)
	}
	return nil
}

func validateSummary(s *models.InterviewSummary) error {
	if err := inRange("overallScore", s.OverallScore, 0, 100); err != nil {
		return err
	}
	if !s.Recommendation.Valid() {
		return fmt.Errorf("unknown recommendation %q", s.Recommendation)
	}
	if !s.LevelRecommendation.Valid() {
		return fmt.Errorf("unknown level %q", s.LevelRecommendation)
	}
	for name, c := range map[string]models.CompetencyScore{
		"technicalSkills": s.TechnicalSkills,
		"problemSolving":  s.ProblemSolving,
		"communication":   s.Communication,
	} {
		if err := inRange(name, c.Score, 0, 10); err != nil {
			return err
		}
	}
	return nil
}
