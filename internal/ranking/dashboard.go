package ranking

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"prepcoach/internal/models"
)

const (
	StatusAll        = "all"
	StatusCompleted  = "completed"
	StatusInProgress = "in-progress"

	SortScore    = "score"
	SortDate     = "date"
	SortName     = "name"
	SortDuration = "duration"

	OrderAsc  = "asc"
	OrderDesc = "desc"

	defaultDurationMinutes = 45
)

type DashboardQuery struct {
	Search string
	Status string
	SortBy string
	Order  string
}

type QuestionScore struct {
	Question   string            `json:"question"`
	Difficulty models.Difficulty `json:"difficulty"`
	Score      float64           `json:"score"`
	Feedback   string            `json:"feedback"`
	TimedOut   bool              `json:"timedOut,omitempty"`
}

type Candidate struct {
	ID                string                `json:"id"`
	UserID            string                `json:"userId"`
	SessionID         string                `json:"sessionId"`
	Name              string                `json:"name"`
	Email             string                `json:"email"`
	Phone             string                `json:"phone"`
	Status            string                `json:"status"`
	FinalScore        float64               `json:"finalScore"`
	Recommendation    models.Recommendation `json:"recommendation,omitempty"`
	CompletionMinutes int                   `json:"completionTime"`
	InterviewDate     time.Time             `json:"interviewDate"`
	Summary           string                `json:"summary"`
	QuestionScores    []QuestionScore       `json:"questionScores"`
	Skills            []string              `json:"skills"`
}

type Metrics struct {
	TotalCandidates  int `json:"totalCandidates"`
	AverageScore     int `json:"averageScore"`
	CompletionRate   int `json:"completionRate"`
	ActiveInterviews int `json:"activeInterviews"`
}

type Dashboard struct {
	Metrics    Metrics     `json:"metrics"`
	Candidates []Candidate `json:"candidates"`
}

// Dashboard builds the interviewer view over every user's history.
func (a *Aggregator) Dashboard(ctx context.Context, q DashboardQuery) (*Dashboard, error) {
	histories, err := a.source.ListAllHistories(ctx)
	if err != nil {
		return nil, err
	}

	userIDs := make([]string, 0, len(histories))
	for id := range histories {
		userIDs = append(userIDs, id)
	}
	sort.Strings(userIDs)

	var candidates []Candidate
	for _, userID := range userIDs {
		for _, h := range histories[userID] {
			result, err := a.source.GetResult(ctx, userID, h.SessionID)
			if err != nil {
				return nil, err
			}
			candidates = append(candidates, candidateRow(userID, h, result))
		}
	}

	snapshots, err := a.source.ListSnapshots(ctx)
	if err != nil {
		return nil, err
	}
	for _, snap := range snapshots {
		if snap.Session != nil && snap.Session.Phase != models.PhaseCompleted {
			candidates = append(candidates, inProgressRow(snap.Profile, snap.Session))
		}
	}

	return &Dashboard{
		Metrics:    computeMetrics(candidates),
		Candidates: filterAndSort(candidates, q),
	}, nil
}

// inProgressRow describes a live session from its current-session slot.
func inProgressRow(userID string, s *models.Session) Candidate {
	info := s.CandidateInfo
	c := Candidate{
		ID:             userID + "-" + s.ID,
		UserID:         userID,
		SessionID:      s.ID,
		Name:           orDefault(info.Name, "Unknown Candidate"),
		Email:          orDefault(info.Email, "No email"),
		Phone:          orDefault(info.Phone, "No phone"),
		Status:         StatusInProgress,
		InterviewDate:  s.LastActivity,
		Summary:        "Interview in progress",
		QuestionScores: questionScores(s.Answers),
		Skills:         []string{},
	}
	if !s.StartedAt.IsZero() && s.LastActivity.After(s.StartedAt) {
		c.CompletionMinutes = int(math.Round(s.LastActivity.Sub(s.StartedAt).Minutes()))
	}
	if info.Skills != nil {
		c.Skills = info.Skills
	}
	return c
}

func candidateRow(userID string, h models.HistoryEntry, r *models.CompletedResult) Candidate {
	c := Candidate{
		ID:                userID + "-" + h.SessionID,
		UserID:            userID,
		SessionID:         h.SessionID,
		Name:              "Unknown Candidate",
		Email:             "No email",
		Phone:             "No phone",
		Status:            StatusCompleted,
		FinalScore:        h.OverallScore,
		Recommendation:    h.Recommendation,
		CompletionMinutes: defaultDurationMinutes,
		InterviewDate:     h.CompletedAt,
		Summary:           "No summary available",
		QuestionScores:    []QuestionScore{},
		Skills:            []string{},
	}
	if r == nil {
		return c
	}

	info := r.CandidateInfo
	c.Name = orDefault(info.Name, c.Name)
	c.Email = orDefault(info.Email, c.Email)
	c.Phone = orDefault(info.Phone, c.Phone)
	c.FinalScore = r.OverallScore
	c.Recommendation = r.Recommendation
	c.Summary = orDefault(r.Summary, c.Summary)
	if !r.CompletedAt.IsZero() {
		c.InterviewDate = r.CompletedAt
	}
	if !r.StartedAt.IsZero() && r.CompletedAt.After(r.StartedAt) {
		if mins := int(math.Round(r.CompletedAt.Sub(r.StartedAt).Minutes())); mins > 0 {
			c.CompletionMinutes = mins
		}
	}
	if info.Skills != nil {
		c.Skills = info.Skills
	}
	c.QuestionScores = questionScores(r.InterviewAnswers)
	return c
}

func questionScores(answers []models.AnswerRecord) []QuestionScore {
	scores := make([]QuestionScore, 0, len(answers))
	for _, ans := range answers {
		qs := QuestionScore{
			Question:   ans.Question,
			Difficulty: ans.Difficulty,
			Feedback:   "No feedback",
			TimedOut:   ans.TimedOut,
		}
		if ans.AIEvaluation != nil {
			qs.Score = ans.AIEvaluation.Score
			qs.Feedback = orDefault(ans.AIEvaluation.Feedback, qs.Feedback)
		}
		scores = append(scores, qs)
	}
	return scores
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// computeMetrics averages scores over completed rows only; in-progress rows
// count towards the total and the active interviews.
func computeMetrics(candidates []Candidate) Metrics {
	m := Metrics{TotalCandidates: len(candidates)}
	if len(candidates) == 0 {
		return m
	}
	var sum float64
	completed := 0
	for _, c := range candidates {
		if c.Status != StatusCompleted {
			m.ActiveInterviews++
			continue
		}
		sum += c.FinalScore
		completed++
	}
	if completed > 0 {
		m.AverageScore = int(math.Round(sum / float64(completed)))
	}
	m.CompletionRate = int(math.Round(float64(completed) / float64(len(candidates)) * 100))
	return m
}

func filterAndSort(candidates []Candidate, q DashboardQuery) []Candidate {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	status := q.Status
	if status == "" {
		status = StatusAll
	}

	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if search != "" &&
			!strings.Contains(strings.ToLower(c.Name), search) &&
			!strings.Contains(strings.ToLower(c.Email), search) {
			continue
		}
		if status != StatusAll && c.Status != status {
			continue
		}
		out = append(out, c)
	}

	less := lessFunc(q.SortBy)
	desc := q.Order != OrderAsc
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(sortBy string) func(a, b Candidate) bool {
	switch sortBy {
	case SortDate:
		return func(a, b Candidate) bool { return a.InterviewDate.Before(b.InterviewDate) }
	case SortName:
		return func(a, b Candidate) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case SortDuration:
		return func(a, b Candidate) bool { return a.CompletionMinutes < b.CompletionMinutes }
	default:
		return func(a, b Candidate) bool { return a.FinalScore < b.FinalScore }
	}
}

// ValidStatus reports whether status is an accepted filter; empty means all.
func ValidStatus(status string) bool {
	switch status {
	case "", StatusAll, StatusCompleted, StatusInProgress:
		return true
	}
	return false
}

// ValidSort reports whether sortBy and order are accepted values. Empty
// values select the defaults.
func ValidSort(sortBy, order string) bool {
	switch sortBy {
	case "", SortScore, SortDate, SortName, SortDuration:
	default:
		return false
	}
	switch order {
	case "", OrderAsc, OrderDesc:
		return true
	}
	return false
}
