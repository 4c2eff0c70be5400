package models

// Role of an account.
type Role string

const (
	RoleCandidate   Role = "candidate"
	RoleInterviewer Role = "interviewer"
	RoleAdmin       Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCandidate, RoleInterviewer, RoleAdmin:
		return true
	}
	return false
}

// Phase of an interview session.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"
	PhaseUpload    Phase = "upload"
	PhaseInfo      Phase = "info"
	PhaseInterview Phase = "interview"
	PhaseCompleted Phase = "completed"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// TimeLimit returns the answer time limit in seconds for a difficulty.
func (d Difficulty) TimeLimit() int {
	switch d {
	case DifficultyEasy:
		return 300
	case DifficultyMedium:
		return 480
	case DifficultyHard:
		return 600
	}
	return 300
}

type Recommendation string

const (
	RecommendationStrongHire   Recommendation = "Strong Hire"
	RecommendationHire         Recommendation = "Hire"
	RecommendationNoHire       Recommendation = "No Hire"
	RecommendationStrongNoHire Recommendation = "Strong No Hire"
)

func (r Recommendation) Valid() bool {
	switch r {
	case RecommendationStrongHire, RecommendationHire, RecommendationNoHire, RecommendationStrongNoHire:
		return true
	}
	return false
}

type Level string

const (
	LevelJunior    Level = "Junior"
	LevelMid       Level = "Mid-level"
	LevelSenior    Level = "Senior"
	LevelLead      Level = "Lead"
	LevelPrincipal Level = "Principal"
)

func (l Level) Valid() bool {
	switch l {
	case LevelJunior, LevelMid, LevelSenior, LevelLead, LevelPrincipal:
		return true
	}
	return false
}

// ExperienceLevel as reported by resume analysis; adds Entry Level to Level.
type ExperienceLevel string

const ExperienceEntryLevel ExperienceLevel = "Entry Level"

func (e ExperienceLevel) Valid() bool {
	return e == ExperienceEntryLevel || Level(e).Valid()
}

const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldPhone = "phone"
)

// NoAnswerSentinel is recorded when a question's countdown expires without a submission.
const NoAnswerSentinel = "(No answer provided - time expired)"
