package interview

import "prepcoach/internal/models"

// TotalSteps counts upload, info collection, six questions and completion.
const TotalSteps = 8

type Progress struct {
	Step            int          `json:"step"`
	Total           int          `json:"total"`
	Label           string       `json:"label"`
	Phase           models.Phase `json:"phase"`
	CurrentQuestion int          `json:"currentQuestion"`
	TotalQuestions  int          `json:"totalQuestions"`
}

func progressOf(s *models.Session) Progress {
	p := Progress{Total: TotalSteps, Label: "Getting Started"}
	if s == nil {
		return p
	}
	p.Phase = s.Phase
	p.CurrentQuestion = s.CurrentQuestion
	p.TotalQuestions = len(s.Questions)
	switch s.Phase {
	case models.PhaseUpload:
		p.Step, p.Label = 1, "Resume Upload"
	case models.PhaseInfo:
		p.Step, p.Label = 2, "Information Collection"
	case models.PhaseInterview:
		p.Step, p.Label = 2+s.CurrentQuestion, "Technical Interview"
	case models.PhaseCompleted:
		p.Step, p.Label = TotalSteps, "Interview Completed"
	}
	return p
}
