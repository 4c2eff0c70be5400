package prompts

import (
	"strings"
	"testing"
)

func TestPromptManagerBuildPrompt(t *testing.T) {
	pm, err := NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager error: %v", err)
	}

	data := map[string]string{
		"Difficulty": "Hard",
		"Question":   "What is a goroutine?",
		"Answer":     "A lightweight thread",
	}
	prompt, err := pm.BuildPrompt(EvaluateAnswer, data)
	if err != nil {
		t.Fatalf("BuildPrompt error: %v", err)
	}

	if !containsAll(prompt.User, []string{"Hard level question", "What is a goroutine?", "A lightweight thread"}) {
		t.Fatalf("prompt did not contain expected values: %s", prompt.User)
	}
	if strings.Contains(prompt.User, "{{.Question}}") {
		t.Fatalf("expected placeholders to be substituted: %s", prompt.User)
	}
	if prompt.System == "" {
		t.Fatalf("expected a system instruction")
	}

	if _, err := pm.BuildPrompt("unknown", data); err == nil {
		t.Fatalf("expected error for unknown template")
	}
}

func TestPromptManagerLoadsEveryOperation(t *testing.T) {
	pm, err := NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager error: %v", err)
	}

	want := []string{AnalyzeResume, EvaluateAnswer, GenerateQuestions, PersonalizeFeedback, SummarizeInterview}
	got := pm.GetTemplates()
	if len(got) != len(want) {
		t.Fatalf("expected %d templates, got %v", len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %s at %d, got %s", want[i], i, got[i])
		}
	}
}

func TestBuildPromptLeavesUnknownPlaceholders(t *testing.T) {
	pm, err := NewPromptManager()
	if err != nil {
		t.Fatalf("NewPromptManager error: %v", err)
	}
	prompt, err := pm.BuildPrompt(AnalyzeResume, nil)
	if err != nil {
		t.Fatalf("BuildPrompt error: %v", err)
	}
	if !strings.Contains(prompt.User, "{{.ResumeText}}") {
		t.Fatalf("expected untouched placeholder, got %s", prompt.User)
	}
}

func containsAll(haystack string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}
