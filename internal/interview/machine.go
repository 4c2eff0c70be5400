// Package interview runs a single candidate's interview session: resume
// upload, contact collection, six timed questions and the final evaluation.
package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"prepcoach/internal/apperr"
	"prepcoach/internal/metrics"
	"prepcoach/internal/models"
	"prepcoach/internal/storage"
)

type Gateway interface {
	GenerateQuestions(ctx context.Context, profile models.CandidateProfile, difficulty models.Difficulty, count int) ([]models.Question, error)
	EvaluateAnswer(ctx context.Context, question, answer string, difficulty models.Difficulty) (*models.Evaluation, error)
	AnalyzeResume(ctx context.Context, resumeText string) (*models.ResumeAnalysis, error)
	SummarizeInterview(ctx context.Context, answers []models.AnswerRecord, info models.CandidateInfo) (*models.InterviewSummary, error)
	PersonalizeFeedback(ctx context.Context, summary *models.InterviewSummary, info models.CandidateInfo) (*models.PersonalizedFeedback, error)
}

type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, session *models.Session) error
	LoadSnapshot(ctx context.Context) (*models.Session, error)
	ClearSnapshot(ctx context.Context) error
}

type ResultStore interface {
	SaveResult(ctx context.Context, userID, sessionID string, result *models.CompletedResult) error
	AppendToUserHistory(ctx context.Context, userID string, entry models.HistoryEntry) error
}

type Publisher interface {
	Publish(ctx context.Context, event models.CompletionEvent) error
}

type Deps struct {
	Gateway     Gateway
	Snapshots   SnapshotStore
	Results     ResultStore
	ResumeStore storage.ResumeStore
	Publisher   Publisher
	Logger      *zap.Logger
}

var (
	ErrNoSession       = apperr.State("no_session", "no interview session is open", nil)
	ErrChoicePending   = apperr.State("choice_pending", "resume the saved interview or start a new one first", nil)
	ErrNothingToResume = apperr.State("no_snapshot", "there is no saved interview to resume", nil)
	ErrEmptyInput      = apperr.Validation("empty_input", "message cannot be empty")
)

func wrongPhase(action string, phase models.Phase) error {
	return apperr.State("wrong_phase", fmt.Sprintf("cannot %s during the %s phase", action, phase), nil)
}

// ResumeOffer describes a saved in-progress session found by Open.
type ResumeOffer struct {
	Available    bool         `json:"available"`
	Phase        models.Phase `json:"phase,omitempty"`
	LastActivity time.Time    `json:"lastActivity,omitempty"`
}

type Option func(*Machine)

func WithCountdown(factory func() Countdown) Option {
	return func(m *Machine) { m.newCountdown = factory }
}

func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithNotifier registers a callback for live events. Message, phase and
// completion events are delivered with the machine lock held; tick events
// arrive on the countdown goroutine without it. Either way the callback must
// not block or call back into the machine.
func WithNotifier(fn func(Event)) Option {
	return func(m *Machine) { m.notify = fn }
}

// Machine is one owner's interview session. All operations are serialized.
type Machine struct {
	deps   Deps
	owner  string
	logger *zap.Logger

	mu         sync.Mutex
	session    *models.Session
	pending    *models.Session
	result     *models.CompletedResult
	countdown  Countdown
	generation uint64
	evals      singleflight.Group

	newCountdown func() Countdown
	now          func() time.Time
	notify       func(Event)
}

func New(deps Deps, ownerID string, opts ...Option) *Machine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	m := &Machine{
		deps:         deps,
		owner:        ownerID,
		logger:       deps.Logger.With(zap.String("owner", ownerID)),
		newCountdown: func() Countdown { return NewTickerCountdown() },
		now:          time.Now,
		notify:       func(Event) {},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.countdown = m.newCountdown()
	return m
}

func (m *Machine) Owner() string { return m.owner }

// Open looks for a saved session. A resumable one is offered and left
// untouched; otherwise a fresh session starts.
func (m *Machine) Open(ctx context.Context) (ResumeOffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopCountdown()
	m.session = nil
	m.pending = nil
	m.result = nil

	snap, err := m.deps.Snapshots.LoadSnapshot(ctx)
	if err != nil {
		return ResumeOffer{}, err
	}
	if snap == nil || snap.Phase == models.PhaseCompleted || !validSnapshot(snap) {
		if snap != nil {
			m.logger.Info("discarding unusable snapshot", zap.String("phase", string(snap.Phase)))
			if err := m.deps.Snapshots.ClearSnapshot(ctx); err != nil {
				return ResumeOffer{}, err
			}
		}
		m.startFresh(ctx)
		return ResumeOffer{}, nil
	}

	m.pending = snap
	return ResumeOffer{Available: true, Phase: snap.Phase, LastActivity: snap.LastActivity}, nil
}

func validSnapshot(s *models.Session) bool {
	switch s.Phase {
	case models.PhaseWelcome, models.PhaseUpload:
		return true
	case models.PhaseInfo:
		return s.MissingFieldCursor < len(s.MissingFields)
	case models.PhaseInterview:
		_, ok := s.ActiveQuestion()
		return ok && len(s.Answers) == s.CurrentQuestion-1
	}
	return false
}

// Resume rehydrates the offered snapshot verbatim.
func (m *Machine) Resume(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending == nil {
		return ErrNothingToResume
	}
	m.session = m.pending
	m.pending = nil
	m.logger.Info("interview resumed",
		zap.String("session_id", m.session.ID),
		zap.String("phase", string(m.session.Phase)))

	m.persist(ctx)
	m.emitPhase()
	if m.session.Phase == models.PhaseInterview {
		m.armActive()
	}
	return nil
}

// StartNew discards any saved session and starts over.
func (m *Machine) StartNew(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stopCountdown()
	m.pending = nil
	m.result = nil
	if err := m.deps.Snapshots.ClearSnapshot(ctx); err != nil {
		return err
	}
	m.startFresh(ctx)
	return nil
}

func (m *Machine) startFresh(ctx context.Context) {
	now := m.now()
	m.session = &models.Session{
		ID:           uuid.NewString(),
		OwnerID:      m.owner,
		Phase:        models.PhaseWelcome,
		Messages:     []models.Message{},
		StartedAt:    now,
		LastActivity: now,
	}
	m.logger.Info("interview started", zap.String("session_id", m.session.ID))
	m.say(welcomeText)
	m.setPhase(models.PhaseUpload)
	m.say(uploadPromptText)
	m.persist(ctx)
}

// UploadResume validates and stores the resume, analyzes it and prepares
// the question set.
func (m *Machine) UploadResume(ctx context.Context, file ResumeFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ready(models.PhaseUpload, "upload a resume"); err != nil {
		return err
	}
	if err := ValidateResume(file); err != nil {
		return err
	}

	var ref string
	if m.deps.ResumeStore != nil {
		var err error
		ref, err = m.deps.ResumeStore.Put(ctx, m.owner, file.Name, file.ContentType, file.Data)
		if err != nil {
			return apperr.Store("resume_store_failure", "failed to store resume", err)
		}
	}

	s := m.session
	m.hear(resumeUploadedText(file.Name))
	m.say(analyzingText)

	contact := models.ContactInfo{Name: PlaceholderName, Email: PlaceholderEmail}
	var info models.CandidateInfo

	analysis, err := m.deps.Gateway.AnalyzeResume(ctx, MockResumeText)
	if err != nil {
		m.logger.Warn("resume analysis failed, collecting info manually", zap.Error(err))
		m.say(manualInfoText)
		info = models.CandidateInfo{Name: contact.Name, Email: contact.Email}
		s.Questions = FallbackSet()
		s.AIQuestions = false
	} else {
		contact = analysis.ContactInfo
		m.say(analyzedText(analysis.Skills.Technical))
		info = models.CandidateInfo{
			Name:   orDefault(contact.Name, PlaceholderName),
			Email:  orDefault(contact.Email, PlaceholderEmail),
			Phone:  contact.Phone,
			Skills: append([]string(nil), analysis.Skills.Technical...),
		}
		profile := models.CandidateProfile{
			Name:            info.Name,
			Skills:          info.Skills,
			ExperienceLevel: analysis.ExperienceLevel,
		}
		s.Questions, s.AIQuestions = m.generateQuestionSet(ctx, profile)
		if s.AIQuestions {
			m.say(personalizedText)
		}
	}
	info.ResumeFileName = file.Name
	info.ResumeRef = ref
	if info.Skills == nil {
		info.Skills = []string{}
	}
	s.CandidateInfo = info

	s.MissingFields = missingFields(contact)
	s.MissingFieldCursor = 0
	if len(s.MissingFields) > 0 {
		m.setPhase(models.PhaseInfo)
		m.say(firstFieldPrompt(s.MissingFields[0]))
		m.persist(ctx)
		return nil
	}
	m.beginInterview(ctx)
	return nil
}

func missingFields(c models.ContactInfo) []string {
	fields := []string{}
	for _, f := range []struct{ name, value string }{
		{models.FieldName, c.Name},
		{models.FieldEmail, c.Email},
		{models.FieldPhone, c.Phone},
	} {
		if strings.TrimSpace(f.value) == "" {
			fields = append(fields, f.name)
		}
	}
	return fields
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// SubmitInfo binds text to the field currently being collected.
func (m *Machine) SubmitInfo(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ready(models.PhaseInfo, "submit information"); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyInput
	}

	s := m.session
	if s.MissingFieldCursor >= len(s.MissingFields) {
		return wrongPhase("submit information", s.Phase)
	}
	s.CandidateInfo.SetField(s.MissingFields[s.MissingFieldCursor], text)
	m.hear(text)
	s.MissingFieldCursor++

	if s.MissingFieldCursor < len(s.MissingFields) {
		m.say(nextFieldPrompt(s.MissingFields[s.MissingFieldCursor]))
		m.persist(ctx)
		return nil
	}
	m.say(infoCompleteText)
	m.beginInterview(ctx)
	return nil
}

func (m *Machine) beginInterview(ctx context.Context) {
	s := m.session
	m.setPhase(models.PhaseInterview)
	s.CurrentQuestion = 1
	m.askActive()
	m.persist(ctx)
	m.armActive()
}

func (m *Machine) askActive() {
	s := m.session
	if q, ok := s.ActiveQuestion(); ok {
		m.say(questionText(s.CurrentQuestion, len(s.Questions), q, s.AIQuestions))
	}
}

// SubmitAnswer records an answer to the active question, evaluates it and
// moves on. Evaluation failures do not block progress.
func (m *Machine) SubmitAnswer(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ready(models.PhaseInterview, "submit an answer"); err != nil {
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyInput
	}
	s := m.session
	q, ok := s.ActiveQuestion()
	if !ok {
		return wrongPhase("submit an answer", s.Phase)
	}

	m.stopCountdown()
	m.hear(text)
	m.say(analyzingAnswer)

	record := models.AnswerRecord{
		QuestionID: q.ID,
		Question:   q.Question,
		Answer:     text,
		Difficulty: q.Difficulty,
		TimeLimit:  q.TimeLimit,
		Timestamp:  m.now(),
	}

	key := fmt.Sprintf("%s:%d", s.ID, s.CurrentQuestion)
	v, err, _ := m.evals.Do(key, func() (any, error) {
		return m.deps.Gateway.EvaluateAnswer(ctx, q.Question, text, q.Difficulty)
	})
	if err != nil {
		m.logger.Warn("answer evaluation failed",
			zap.String("session_id", s.ID),
			zap.Int("question", s.CurrentQuestion),
			zap.Error(err))
		m.say(movingOnText)
	} else {
		eval := v.(*models.Evaluation)
		record.AIEvaluation = eval
		m.say(evaluationText(eval))
	}

	s.Answers = append(s.Answers, record)
	m.advance(ctx)
	return nil
}

// expire handles a countdown reaching zero. A stale generation means the
// question was already answered or the countdown superseded.
func (m *Machine) expire(gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.generation || m.session == nil || m.session.Phase != models.PhaseInterview {
		return
	}
	s := m.session
	q, ok := s.ActiveQuestion()
	if !ok {
		return
	}
	m.generation++

	m.logger.Info("question timed out",
		zap.String("session_id", s.ID),
		zap.Int("question", s.CurrentQuestion))
	metrics.AnswerTimedOut()
	m.say(timeUpText)
	s.Answers = append(s.Answers, models.AnswerRecord{
		QuestionID: q.ID,
		Question:   q.Question,
		Answer:     models.NoAnswerSentinel,
		Difficulty: q.Difficulty,
		TimeLimit:  q.TimeLimit,
		TimedOut:   true,
		Timestamp:  m.now(),
	})
	m.advance(context.Background())
}

// advance moves to the next question or, after the last, completes.
func (m *Machine) advance(ctx context.Context) {
	s := m.session
	if s.CurrentQuestion < len(s.Questions) {
		s.CurrentQuestion++
		m.askActive()
		m.persist(ctx)
		m.armActive()
		return
	}

	m.setPhase(models.PhaseCompleted)
	m.say(generatingText)
	m.persist(ctx)
	_ = m.finish(ctx)
}

// RetryResults re-runs the final evaluation after a failure.
func (m *Machine) RetryResults(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ready(models.PhaseCompleted, "retry results"); err != nil {
		return err
	}
	if !m.session.ResultsFailed {
		return apperr.State("results_available", "results have already been generated", nil)
	}
	m.say(generatingText)
	return m.finish(ctx)
}

// finish summarizes the interview and persists the result. Nothing is
// persisted unless every gateway call succeeds.
func (m *Machine) finish(ctx context.Context) error {
	s := m.session

	summary, err := m.deps.Gateway.SummarizeInterview(ctx, s.Answers, s.CandidateInfo)
	if err != nil {
		return m.failResults(ctx, err)
	}
	feedback, err := m.deps.Gateway.PersonalizeFeedback(ctx, summary, s.CandidateInfo)
	if err != nil {
		return m.failResults(ctx, err)
	}

	result := &models.CompletedResult{
		InterviewSummary:     *summary,
		PersonalizedFeedback: *feedback,
		CandidateInfo:        s.CandidateInfo,
		InterviewAnswers:     append([]models.AnswerRecord(nil), s.Answers...),
		SessionID:            s.ID,
		UserID:               m.owner,
		StartedAt:            s.StartedAt,
		CompletedAt:          m.now(),
	}

	if err := m.deps.Results.SaveResult(ctx, m.owner, s.ID, result); err != nil {
		return m.failResults(ctx, err)
	}
	entry := models.HistoryEntry{
		SessionID:      s.ID,
		CompletedAt:    result.CompletedAt,
		OverallScore:   result.OverallScore,
		Recommendation: result.Recommendation,
	}
	if err := m.deps.Results.AppendToUserHistory(ctx, m.owner, entry); err != nil {
		return m.failResults(ctx, err)
	}

	if m.deps.Publisher != nil {
		event := models.CompletionEvent{
			UserID:         m.owner,
			SessionID:      s.ID,
			OverallScore:   result.OverallScore,
			Recommendation: result.Recommendation,
			StartedAt:      result.StartedAt,
			CompletedAt:    result.CompletedAt,
		}
		if err := m.deps.Publisher.Publish(ctx, event); err != nil {
			m.logger.Warn("failed to publish completion event", zap.String("session_id", s.ID), zap.Error(err))
		}
	}

	s.ResultsFailed = false
	m.result = result
	m.say(completedText(result))
	if err := m.deps.Snapshots.ClearSnapshot(ctx); err != nil {
		m.logger.Error("failed to clear snapshot", zap.String("session_id", s.ID), zap.Error(err))
	}
	metrics.InterviewCompleted()
	m.logger.Info("interview completed",
		zap.String("session_id", s.ID),
		zap.Float64("overall_score", result.OverallScore),
		zap.String("recommendation", string(result.Recommendation)))

	progress := progressOf(s)
	m.notify(Event{Type: EventCompleted, Phase: s.Phase, Progress: &progress, Result: result})
	return nil
}

func (m *Machine) failResults(ctx context.Context, err error) error {
	m.logger.Error("failed to generate interview results", zap.String("session_id", m.session.ID), zap.Error(err))
	metrics.InterviewFailed()
	m.session.ResultsFailed = true
	m.say(resultsFailedText)
	m.persist(ctx)
	return err
}

// Close stops the countdown and drops the in-memory session. The snapshot
// stays behind as the recovery point.
func (m *Machine) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCountdown()
	m.session = nil
	m.pending = nil
}

// State returns a deep copy of the current session, or nil.
func (m *Machine) State() *models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneSession(m.session)
}

func (m *Machine) Progress() Progress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return progressOf(m.session)
}

// Remaining reports the seconds left on the active question.
func (m *Machine) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil || m.session.Phase != models.PhaseInterview {
		return 0
	}
	return m.countdown.Remaining()
}

// Result returns the completed result of this session, if any.
func (m *Machine) Result() *models.CompletedResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.result == nil {
		return nil
	}
	r := *m.result
	return &r
}

func (m *Machine) ready(phase models.Phase, action string) error {
	if m.session == nil {
		if m.pending != nil {
			return ErrChoicePending
		}
		return ErrNoSession
	}
	if m.session.Phase != phase {
		return wrongPhase(action, m.session.Phase)
	}
	return nil
}

func (m *Machine) armActive() {
	q, ok := m.session.ActiveQuestion()
	if !ok {
		return
	}
	m.generation++
	gen := m.generation
	limit := q.TimeLimit
	threshold := warningThreshold(limit)
	m.countdown.Arm(limit,
		func(remaining int) {
			m.notify(Event{Type: EventTick, Remaining: remaining, Warning: remaining <= threshold})
		},
		func() { m.expire(gen) })
}

func (m *Machine) stopCountdown() {
	m.countdown.Cancel()
	m.generation++
}

func (m *Machine) persist(ctx context.Context) {
	m.session.LastActivity = m.now()
	if err := m.deps.Snapshots.SaveSnapshot(ctx, m.session); err != nil {
		m.logger.Error("failed to save snapshot", zap.String("session_id", m.session.ID), zap.Error(err))
	}
}

func (m *Machine) say(content string)  { m.addMessage(content, true) }
func (m *Machine) hear(content string) { m.addMessage(content, false) }

func (m *Machine) addMessage(content string, isAI bool) {
	msg := models.Message{ID: uuid.NewString(), Content: content, IsAI: isAI, Timestamp: m.now()}
	m.session.Messages = append(m.session.Messages, msg)
	m.notify(Event{Type: EventMessage, Message: &msg})
}

func (m *Machine) setPhase(p models.Phase) {
	m.session.Phase = p
	m.emitPhase()
}

func (m *Machine) emitPhase() {
	progress := progressOf(m.session)
	m.notify(Event{Type: EventPhase, Phase: m.session.Phase, Progress: &progress})
}

func cloneSession(s *models.Session) *models.Session {
	if s == nil {
		return nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	var out models.Session
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return &out
}
