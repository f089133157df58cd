package provider

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pulsr-ai/lingua/internal/config"
	"github.com/pulsr-ai/lingua/internal/domain/llm"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

// Factory resolves provider names against the service configuration.
// Missing credentials surface as configuration errors, distinct from the
// upstream errors a live provider can return.
type Factory struct {
	cfg *config.Config
}

// NewFactory builds the provider factory.
func NewFactory(cfg *config.Config) *Factory {
	return &Factory{cfg: cfg}
}

// Create returns the provider registered under name. An empty name selects
// the configured default.
func (f *Factory) Create(name string) (llm.Provider, error) {
	if name == "" {
		name = f.cfg.DefaultProvider
	}
	switch name {
	case "openai":
		if f.cfg.OpenAIAPIKey == "" {
			return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeValidation, "OPENAI_API_KEY is not configured")
		}
		return NewOpenAIProvider("openai", f.cfg.OpenAIAPIKey, f.cfg.OpenAIBaseURL, f.cfg.OpenAIModel), nil
	case "anthropic":
		if f.cfg.AnthropicAPIKey == "" {
			return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeValidation, "ANTHROPIC_API_KEY is not configured")
		}
		return NewAnthropicProvider(f.cfg.AnthropicAPIKey, f.cfg.AnthropicURL, f.cfg.AnthropicModel, f.cfg.ProviderTimeout), nil
	case "local":
		return NewLocalProvider(f.cfg.LocalProviderURL, f.cfg.LocalModel, f.cfg.ProviderTimeout), nil
	case "private":
		if f.cfg.PrivateBaseURL == "" {
			return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeValidation, "PRIVATE_BASE_URL is not configured")
		}
		if f.cfg.PrivateAPIKey == "" {
			return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeValidation, "PRIVATE_API_KEY is not configured")
		}
		return NewOpenAIProvider("private", f.cfg.PrivateAPIKey, f.cfg.PrivateBaseURL, f.cfg.PrivateModel), nil
	default:
		return nil, apperrors.Newf(apperrors.LayerInfrastructure, apperrors.ErrorTypeValidation, "unknown LLM provider: %s", name)
	}
}

// generateCallID synthesizes a call id for backends that do not assign one.
func generateCallID(index int) string {
	return fmt.Sprintf("call_%d_%s", index, uuid.NewString()[:8])
}
