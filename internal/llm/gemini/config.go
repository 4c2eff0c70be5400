package gemini

import (
	"errors"
	"os"
	"strconv"
)

// holds Gemini-specific configuration
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
}

func NewConfig() (*Config, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY environment variable is required")
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}

	temperature := float32(0.2)
	if raw := os.Getenv("GEMINI_TEMPERATURE"); raw != "" {
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return nil, errors.New("GEMINI_TEMPERATURE must be a number")
		}
		temperature = float32(v)
	}

	return &Config{
		APIKey:      apiKey,
		Model:       model,
		Temperature: temperature,
	}, nil
}
