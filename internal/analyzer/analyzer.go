package analyzer

import (
	"fmt"

	"github.com/ai15/dash-ingest/internal/config"
)

// New creates a new analyzer based on the configuration
func New(cfg *config.Config) (Analyzer, error) {
	switch cfg.Analyzer.Type {
	case "openai":
		return NewOpenAIAnalyzer(
			cfg.Analyzer.Endpoint,
			cfg.Analyzer.APIKey,
			cfg.Analyzer.Model,
			cfg.Analyzer.MaxTokens,
			cfg.Analyzer.Temperature,
			cfg.MaxTextLength,
		), nil
	default:
		return nil, ErrUnsupportedAnalyzerType
	}
}

// ErrUnsupportedAnalyzerType is returned when an unsupported analyzer type is specified
var ErrUnsupportedAnalyzerType = fmt.Errorf("unsupported analyzer type")
