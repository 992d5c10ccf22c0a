package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "3001", cfg.Port)
	assert.Equal(t, ProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAIModel)
	assert.Equal(t, 90*time.Second, cfg.ModelTimeout)
	assert.Equal(t, 3*time.Minute, cfg.PublishTimeout)
	assert.Equal(t, "db", cfg.DataDir)
	assert.Equal(t, "user-websites", cfg.PublishDir)
	assert.Equal(t, 10, cfg.MaxUploadImages)
	assert.Equal(t, int64(20<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "user-website-", cfg.GitHubRepoPrefix)
	assert.Equal(t, "0 21 * * *", cfg.DailyReportSpec)
	assert.False(t, cfg.PublishEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "Yandex")
	t.Setenv("YANDEX_OAUTH_TOKEN", "tok")
	t.Setenv("YANDEX_FOLDER_ID", "folder")
	t.Setenv("MODEL_TIMEOUT", "5s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("GITHUB_TOKEN", "ghp")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderYandex, cfg.LLMProvider)
	assert.Equal(t, 5*time.Second, cfg.ModelTimeout)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.PublishEnabled())
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing openai key": {"LLM_PROVIDER": "openai", "OPENAI_API_KEY": ""},
		"unknown provider":   {"LLM_PROVIDER": "mystery"},
		"yandex no folder":   {"LLM_PROVIDER": "yandex", "YANDEX_OAUTH_TOKEN": "t", "YANDEX_FOLDER_ID": ""},
		"zero timeout":       {"OPENAI_API_KEY": "k", "MODEL_TIMEOUT": "0s"},
	}
	for name, vars := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range vars {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
