package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"prepcoach/internal/llm"
	"prepcoach/internal/utils"
)

type ReadinessCheck struct {
	Status  string `json:"status"` // "ok" | "failed"
	Message string `json:"message,omitempty"`
}

type ReadinessResponse struct {
	Status  string                    `json:"status"` // "ready" | "not_ready"
	Service string                    `json:"service"`
	Checks  map[string]ReadinessCheck `json:"checks"`
}

// TemplateLister reports the loaded prompt templates.
type TemplateLister interface {
	GetTemplates() []string
}

// Probe checks one backing store.
type Probe func(ctx context.Context) error

type HealthHandler struct {
	provider llm.Provider
	prompts  TemplateLister
	probes   map[string]Probe
	timeout  time.Duration
}

func NewHealthHandler(provider llm.Provider, prompts TemplateLister, probes map[string]Probe) *HealthHandler {
	return &HealthHandler{provider: provider, prompts: prompts, probes: probes, timeout: 2 * time.Second}
}

func (handler *HealthHandler) HealthzHandler(writer http.ResponseWriter, request *http.Request) {
	utils.JSON(writer, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "prepcoach",
		"version": "1.0.0",
	})
}

func (handler *HealthHandler) ReadyzHandler(writer http.ResponseWriter, request *http.Request) {
	checks := make(map[string]ReadinessCheck)
	allChecksPass := true
	fail := func(name, message string) {
		checks[name] = ReadinessCheck{Status: "failed", Message: message}
		allChecksPass = false
	}

	if handler.provider == nil {
		fail("provider", "AI provider not initialized")
	} else {
		checks["provider"] = ReadinessCheck{Status: "ok", Message: handler.provider.GetProviderName()}
	}

	switch {
	case handler.prompts == nil:
		fail("prompt_manager", "Prompt manager not initialized")
	case len(handler.prompts.GetTemplates()) == 0:
		fail("prompt_manager", "No prompt templates loaded")
	default:
		checks["prompt_manager"] = ReadinessCheck{Status: "ok"}
	}

	names := make([]string, 0, len(handler.probes))
	for name := range handler.probes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ctx, cancel := context.WithTimeout(request.Context(), handler.timeout)
		err := handler.probes[name](ctx)
		cancel()
		if err != nil {
			fail(name, err.Error())
			continue
		}
		checks[name] = ReadinessCheck{Status: "ok"}
	}

	response := ReadinessResponse{Service: "prepcoach", Checks: checks}
	if allChecksPass {
		response.Status = "ready"
		utils.JSON(writer, http.StatusOK, response)
	} else {
		response.Status = "not_ready"
		utils.JSON(writer, http.StatusServiceUnavailable, response)
	}
}
