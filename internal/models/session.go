package models

import "time"

// Message is a single chat line in an interview session.
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	IsAI      bool      `json:"isAI"`
	Timestamp time.Time `json:"timestamp"`
}

// CandidateInfo is assembled during upload and info collection.
type CandidateInfo struct {
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	ResumeFileName string   `json:"resumeFileName,omitempty"`
	ResumeRef      string   `json:"resumeRef,omitempty"`
	Skills         []string `json:"skills"`
}

// Field returns the value of a named contact field.
func (c CandidateInfo) Field(name string) string {
	switch name {
	case FieldName:
		return c.Name
	case FieldEmail:
		return c.Email
	case FieldPhone:
		return c.Phone
	}
	return ""
}

// SetField binds a value to a named contact field. Unknown names are ignored.
func (c *CandidateInfo) SetField(name, value string) {
	switch name {
	case FieldName:
		c.Name = value
	case FieldEmail:
		c.Email = value
	case FieldPhone:
		c.Phone = value
	}
}

type Question struct {
	ID             string     `json:"id"`
	Question       string     `json:"question"`
	Difficulty     Difficulty `json:"difficulty"`
	Category       string     `json:"category"`
	ExpectedPoints []string   `json:"expectedPoints"`
	TimeLimit      int        `json:"timeLimit"`
	Fallback       bool       `json:"fallback,omitempty"`
}

type Evaluation struct {
	Score             float64  `json:"score"`
	Feedback          string   `json:"feedback"`
	Strengths         []string `json:"strengths"`
	Improvements      []string `json:"improvements"`
	TechnicalAccuracy float64  `json:"technicalAccuracy"`
	Completeness      float64  `json:"completeness"`
	Clarity           float64  `json:"clarity"`
	Recommendations   []string `json:"recommendations"`
}

// AnswerRecord is appended once per question, in question order.
type AnswerRecord struct {
	QuestionID   string      `json:"questionId"`
	Question     string      `json:"question"`
	Answer       string      `json:"answer"`
	Difficulty   Difficulty  `json:"difficulty"`
	TimeLimit    int         `json:"timeLimit"`
	TimedOut     bool        `json:"timedOut,omitempty"`
	Timestamp    time.Time   `json:"timestamp"`
	AIEvaluation *Evaluation `json:"aiEvaluation,omitempty"`
}

// Session is the persisted in-progress interview (the snapshot).
type Session struct {
	ID                 string         `json:"sessionId"`
	OwnerID            string         `json:"ownerId"`
	Phase              Phase          `json:"phase"`
	Messages           []Message      `json:"messages"`
	CandidateInfo      CandidateInfo  `json:"candidateInfo"`
	MissingFields      []string       `json:"missingFields"`
	MissingFieldCursor int            `json:"currentMissingField"`
	CurrentQuestion    int            `json:"currentQuestion"`
	Questions          []Question     `json:"questions"`
	AIQuestions        bool           `json:"aiQuestions"`
	Answers            []AnswerRecord `json:"interviewAnswers"`
	ResultsFailed      bool           `json:"resultsFailed,omitempty"`
	StartedAt          time.Time      `json:"startedAt"`
	LastActivity       time.Time      `json:"lastActivity"`
}

// ActiveQuestion returns the question at the 1-based CurrentQuestion index.
func (s *Session) ActiveQuestion() (Question, bool) {
	if s.CurrentQuestion < 1 || s.CurrentQuestion > len(s.Questions) {
		return Question{}, false
	}
	return s.Questions[s.CurrentQuestion-1], true
}
