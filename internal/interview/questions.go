package interview

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"prepcoach/internal/metrics"
	"prepcoach/internal/models"
)

// generationConcurrency bounds parallel question generation calls.
const generationConcurrency = 3

// Slots is the fixed difficulty layout of every interview.
var Slots = []models.Difficulty{
	models.DifficultyEasy, models.DifficultyEasy,
	models.DifficultyMedium, models.DifficultyMedium,
	models.DifficultyHard, models.DifficultyHard,
}

var fallbackBank = []models.Question{
	{
		ID:         "q1",
		Difficulty: models.DifficultyEasy,
		Category:   "JavaScript",
		Question:   "What is the difference between let, const, and var in JavaScript? Provide examples of when you would use each.",
	},
	{
		ID:         "q2",
		Difficulty: models.DifficultyEasy,
		Category:   "React",
		Question:   "Explain what React hooks are and name three commonly used hooks with their purposes.",
	},
	{
		ID:         "q3",
		Difficulty: models.DifficultyMedium,
		Category:   "React",
		Question:   "How would you implement state management in a React application? Compare useState, useContext, and Redux approaches.",
	},
	{
		ID:         "q4",
		Difficulty: models.DifficultyMedium,
		Category:   "Node.js",
		Question:   "Describe the Node.js event loop and how it handles asynchronous operations. What are callbacks, promises, and async/await?",
	},
	{
		ID:         "q5",
		Difficulty: models.DifficultyHard,
		Category:   "API Design",
		Question:   "Design a RESTful API for a blog application with authentication. Include endpoints, HTTP methods, status codes, and explain your database schema design.",
	},
	{
		ID:         "q6",
		Difficulty: models.DifficultyHard,
		Category:   "React",
		Question:   "Implement a custom React hook for debouncing user input. Explain how you would optimize a React application for performance, including code splitting and memoization.",
	},
}

// FallbackQuestion returns slot i of the fallback bank with its time limit set.
func FallbackQuestion(i int) models.Question {
	q := fallbackBank[i]
	q.TimeLimit = q.Difficulty.TimeLimit()
	q.Fallback = true
	return q
}

// FallbackSet returns the whole fallback bank.
func FallbackSet() []models.Question {
	qs := make([]models.Question, len(fallbackBank))
	for i := range fallbackBank {
		qs[i] = FallbackQuestion(i)
	}
	return qs
}

// generateQuestionSet fills every slot, substituting the fallback question
// for any slot whose generation fails. The bool reports whether at least
// one slot was generated.
func (m *Machine) generateQuestionSet(ctx context.Context, profile models.CandidateProfile) ([]models.Question, bool) {
	questions := make([]models.Question, len(Slots))
	generated := make([]bool, len(Slots))

	var g errgroup.Group
	g.SetLimit(generationConcurrency)
	for i, difficulty := range Slots {
		g.Go(func() error {
			qs, err := m.deps.Gateway.GenerateQuestions(ctx, profile, difficulty, 1)
			if err != nil || len(qs) == 0 {
				m.logger.Warn("question generation failed, using fallback",
					zap.Int("slot", i+1),
					zap.String("difficulty", string(difficulty)),
					zap.Error(err))
				metrics.FallbackQuestionUsed()
				questions[i] = FallbackQuestion(i)
				return nil
			}
			q := qs[0]
			q.Difficulty = difficulty
			q.TimeLimit = difficulty.TimeLimit()
			q.Fallback = false
			if strings.TrimSpace(q.ID) == "" {
				q.ID = uuid.NewString()
			}
			questions[i] = q
			generated[i] = true
			return nil
		})
	}
	_ = g.Wait()

	for _, ok := range generated {
		if ok {
			return questions, true
		}
	}
	return questions, false
}
