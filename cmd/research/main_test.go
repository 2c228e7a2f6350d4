package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/hupe1980/researchmesh/config"
	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCLI_Flags(t *testing.T) {
	var cli CLI
	parser, err := kong.New(&cli)
	require.NoError(t, err)

	_, err = parser.Parse([]string{"--task", "research go generics", "--model", "gpt-4o-mini", "--log-dir", "/tmp/research"})
	require.NoError(t, err)

	assert.Equal(t, "research go generics", cli.Task)
	assert.Equal(t, "gpt-4o-mini", cli.Model)
	assert.Equal(t, "/tmp/research", cli.LogDir)
}

func TestCLI_Env(t *testing.T) {
	t.Setenv("RESEARCH_TASK", "from env")
	t.Setenv("RESEARCH_MODEL", "claude-sonnet-4-20250514")

	var cli CLI
	parser, err := kong.New(&cli)
	require.NoError(t, err)

	_, err = parser.Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, "from env", cli.Task)
	assert.Equal(t, "claude-sonnet-4-20250514", cli.Model)
}

func TestNewModel(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "openai", newModel(cfg).Info().Provider)

	cfg.Model = "claude-sonnet-4-20250514"
	info := newModel(cfg).Info()
	assert.Equal(t, "anthropic", info.Provider)
	assert.Equal(t, "claude-sonnet-4-20250514", info.Name)
}

func TestNewModel_AnthropicBaseURL(t *testing.T) {
	paths := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case paths <- r.URL.Path:
		default:
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-20250514",
			"content": [{"type": "text", "text": "pong"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 1, "output_tokens": 1}
		}`))
	}))
	defer srv.Close()

	t.Setenv("ANTHROPIC_API_KEY", "test")

	cfg := config.Default()
	cfg.Model = "claude-sonnet-4-20250514"
	cfg.BaseURL = srv.URL

	resp, err := newModel(cfg).Complete(context.Background(), model.Request{
		Messages: core.Transcript{core.UserMessage{Text: "ping"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "pong", resp.Content)
	assert.Equal(t, "/v1/messages", <-paths)
}
