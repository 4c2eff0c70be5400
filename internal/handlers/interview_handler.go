package handlers

import (
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"prepcoach/internal/interview"
	"prepcoach/internal/middleware"
	"prepcoach/internal/models"
	"prepcoach/internal/utils"
)

// multipart overhead allowed on top of the resume itself
const uploadSlack = 1 << 20

type InterviewHandler struct {
	Registry *interview.Registry
	logger   *zap.Logger
}

func NewInterviewHandler(registry *interview.Registry, logger *zap.Logger) *InterviewHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterviewHandler{Registry: registry, logger: logger}
}

type SessionView struct {
	Session   *models.Session         `json:"session,omitempty"`
	Progress  interview.Progress      `json:"progress"`
	Remaining int                     `json:"remaining"`
	Result    *models.CompletedResult `json:"result,omitempty"`
}

type OpenResponse struct {
	Offer interview.ResumeOffer `json:"offer"`
	SessionView
}

func (h *InterviewHandler) machine(r *http.Request) *interview.Machine {
	return h.Registry.Get(middleware.UserIDFrom(r.Context()))
}

func viewOf(m *interview.Machine) SessionView {
	return SessionView{
		Session:   m.State(),
		Progress:  m.Progress(),
		Remaining: m.Remaining(),
		Result:    m.Result(),
	}
}

func (h *InterviewHandler) respond(w http.ResponseWriter, m *interview.Machine, err error) {
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, viewOf(m))
}

func (h *InterviewHandler) OpenHandler(w http.ResponseWriter, r *http.Request) {
	m := h.machine(r)
	offer, err := m.Open(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, OpenResponse{Offer: offer, SessionView: viewOf(m)})
}

func (h *InterviewHandler) ResumeHandler(w http.ResponseWriter, r *http.Request) {
	m := h.machine(r)
	h.respond(w, m, m.Resume(r.Context()))
}

func (h *InterviewHandler) StartNewHandler(w http.ResponseWriter, r *http.Request) {
	m := h.machine(r)
	h.respond(w, m, m.StartNew(r.Context()))
}

func (h *InterviewHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, interview.MaxResumeBytes+uploadSlack)
	if err := r.ParseMultipartForm(interview.MaxResumeBytes + uploadSlack); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.WriteError(w, interview.ErrFileTooLarge)
			return
		}
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{Code: "invalid_form", Message: "Expected a multipart form with a resume file"})
		return
	}
	file, header, err := r.FormFile("resume")
	if err != nil {
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{Code: "missing_file", Message: "resume file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, interview.MaxResumeBytes+1))
	if err != nil {
		h.logger.Error("failed to read resume upload", zap.Error(err))
		utils.JSONError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}

	m := h.machine(r)
	h.respond(w, m, m.UploadResume(r.Context(), interview.ResumeFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        data,
	}))
}

func (h *InterviewHandler) InfoHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.TextRequest](r)
	m := h.machine(r)
	h.respond(w, m, m.SubmitInfo(r.Context(), req.Text))
}

func (h *InterviewHandler) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.TextRequest](r)
	m := h.machine(r)
	h.respond(w, m, m.SubmitAnswer(r.Context(), req.Text))
}

func (h *InterviewHandler) RetryResultsHandler(w http.ResponseWriter, r *http.Request) {
	m := h.machine(r)
	h.respond(w, m, m.RetryResults(r.Context()))
}

func (h *InterviewHandler) StateHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, viewOf(h.machine(r)))
}
