package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsr-ai/lingua/internal/config"
	"github.com/pulsr-ai/lingua/internal/utils/apperrors"
)

func TestFactoryCreate(t *testing.T) {
	cfg := &config.Config{
		DefaultProvider: "openai",
		OpenAIAPIKey:    "sk-test",
		OpenAIModel:     "gpt-4o",
		AnthropicModel:  "claude-sonnet-4-20250514",
		AnthropicURL:    "https://api.anthropic.com",
		LocalModel:      "llama3",
	}
	factory := NewFactory(cfg)

	p, err := factory.Create("")
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
	assert.Equal(t, "gpt-4o", p.DefaultModel())

	_, err = factory.Create("anthropic")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	cfg.AnthropicAPIKey = "ak-test"
	p, err = factory.Create("anthropic")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", p.Name())

	// Local needs no credentials.
	p, err = factory.Create("local")
	require.NoError(t, err)
	assert.Equal(t, "local", p.Name())
	assert.Equal(t, "llama3", p.DefaultModel())

	_, err = factory.Create("private")
	require.Error(t, err)
	cfg.PrivateBaseURL = "https://llm.internal"
	_, err = factory.Create("private")
	require.Error(t, err)
	cfg.PrivateAPIKey = "pk-test"
	p, err = factory.Create("private")
	require.NoError(t, err)
	assert.Equal(t, "private", p.Name())

	_, err = factory.Create("bedrock")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestGenerateCallID(t *testing.T) {
	a := generateCallID(0)
	b := generateCallID(0)
	assert.Regexp(t, `^call_0_[0-9a-f-]{8}$`, a)
	assert.NotEqual(t, a, b)
}
