package prompts

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// embeds all .yaml files in the templates folder into Go program at compile time
//
//go:embed templates/*.yaml
var templateFS embed.FS

// Template names, one per gateway operation.
const (
	GenerateQuestions   = "generate_questions"
	EvaluateAnswer      = "evaluate_answer"
	AnalyzeResume       = "analyze_resume"
	SummarizeInterview  = "summarize_interview"
	PersonalizeFeedback = "personalize_feedback"
)

// PromptTemplate is one YAML file: a system instruction and a user prompt.
type PromptTemplate struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

// Prompt is a rendered template.
type Prompt struct {
	System string
	User   string
}

type PromptManager struct {
	templates map[string]PromptTemplate
}

func NewPromptManager() (*PromptManager, error) {
	pm := &PromptManager{templates: make(map[string]PromptTemplate)}
	if err := pm.loadPrompts(); err != nil {
		return nil, fmt.Errorf("failed to load prompt templates: %w", err)
	}
	return pm, nil
}

// BuildPrompt substitutes {{.Key}} placeholders with data values.
// Placeholders without a value are left as they are.
func (pm *PromptManager) BuildPrompt(name string, data map[string]string) (Prompt, error) {
	tmpl, exists := pm.templates[name]
	if !exists {
		return Prompt{}, fmt.Errorf("template not found: %s", name)
	}

	pairs := make([]string, 0, len(data)*2)
	for key, value := range data {
		pairs = append(pairs, "{{."+key+"}}", value)
	}
	r := strings.NewReplacer(pairs...)

	return Prompt{
		System: strings.TrimSpace(r.Replace(tmpl.System)),
		User:   strings.TrimSpace(r.Replace(tmpl.User)),
	}, nil
}

// GetTemplates lists the loaded template names in sorted order.
func (pm *PromptManager) GetTemplates() []string {
	names := make([]string, 0, len(pm.templates))
	for name := range pm.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (pm *PromptManager) loadPrompts() error {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return fmt.Errorf("failed to read templates directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}

		data, err := templateFS.ReadFile("templates/" + entry.Name())
		if err != nil {
			return fmt.Errorf("failed to read template file %s: %w", entry.Name(), err)
		}

		var tmpl PromptTemplate
		if err := yaml.Unmarshal(data, &tmpl); err != nil {
			return fmt.Errorf("failed to parse template file %s: %w", entry.Name(), err)
		}
		if tmpl.User == "" {
			return fmt.Errorf("template %s has no user prompt", entry.Name())
		}

		pm.templates[strings.TrimSuffix(entry.Name(), ".yaml")] = tmpl
	}

	return nil
}
