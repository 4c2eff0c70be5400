package models

import "time"

type CompetencyScore struct {
	Score      float64 `json:"score"`
	Assessment string  `json:"assessment"`
}

// InterviewSummary is the gateway's final evaluation of a whole interview.
type InterviewSummary struct {
	OverallScore        float64         `json:"overallScore"`
	Recommendation      Recommendation  `json:"recommendation"`
	Summary             string          `json:"summary"`
	TechnicalSkills     CompetencyScore `json:"technicalSkills"`
	ProblemSolving      CompetencyScore `json:"problemSolving"`
	Communication       CompetencyScore `json:"communication"`
	Strengths           []string        `json:"strengths"`
	AreasForImprovement []string        `json:"areasForImprovement"`
	LevelRecommendation Level           `json:"levelRecommendation"`
	NextSteps           []string        `json:"nextSteps"`
	InterviewerNotes    string          `json:"interviewerNotes"`
}

type DevelopmentArea struct {
	Area            string   `json:"area"`
	Recommendations []string `json:"recommendations"`
	Resources       []string `json:"resources"`
}

type PersonalizedFeedback struct {
	MotivationalMessage        string            `json:"motivationalMessage"`
	KeyStrengths               []string          `json:"keyStrengths"`
	DevelopmentAreas           []DevelopmentArea `json:"developmentAreas"`
	CareerAdvice               string            `json:"careerAdvice"`
	NextSteps                  []string          `json:"nextSteps"`
	EstimatedTimeToImprovement string            `json:"estimatedTimeToImprovement"`
}

// CompletedResult is written once when an interview finishes and is read-only afterwards.
type CompletedResult struct {
	InterviewSummary
	PersonalizedFeedback PersonalizedFeedback `json:"personalizedFeedback"`
	CandidateInfo        CandidateInfo        `json:"candidateInfo"`
	InterviewAnswers     []AnswerRecord       `json:"interviewAnswers"`
	SessionID            string               `json:"sessionId"`
	UserID               string               `json:"userId"`
	StartedAt            time.Time            `json:"startedAt"`
	CompletedAt          time.Time            `json:"completedAt"`
}

// HistoryEntry is the lightweight per-user record of a completed interview.
type HistoryEntry struct {
	SessionID      string         `json:"sessionId"`
	CompletedAt    time.Time      `json:"completedAt"`
	OverallScore   float64        `json:"overallScore"`
	Recommendation Recommendation `json:"recommendation"`
}

// ResultRef is one entry of the results secondary index.
type ResultRef struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}

// CompletionEvent is published after a result has been persisted.
type CompletionEvent struct {
	UserID         string         `json:"userId"`
	SessionID      string         `json:"sessionId"`
	OverallScore   float64        `json:"overallScore"`
	Recommendation Recommendation `json:"recommendation"`
	StartedAt      time.Time      `json:"startedAt"`
	CompletedAt    time.Time      `json:"completedAt"`
}
