// Command research runs a lead-researcher agent that delegates research
// questions to concurrently running sub-agents and prints the final report.
//
// Credentials come from the environment (OPENAI_API_KEY, ANTHROPIC_API_KEY)
// or a .env file in the working directory. Model settings are read from
// research.yaml when present.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/hupe1980/researchmesh/config"
	"github.com/hupe1980/researchmesh/core"
	"github.com/hupe1980/researchmesh/logging"
	"github.com/hupe1980/researchmesh/model"
	"github.com/hupe1980/researchmesh/model/anthropic"
	"github.com/hupe1980/researchmesh/model/openai"
	"github.com/hupe1980/researchmesh/research"
	"github.com/joho/godotenv"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
)

// CLI defines the command-line interface.
type CLI struct {
	Task   string `short:"t" required:"" env:"RESEARCH_TASK" help:"Research task for the lead researcher"`
	Model  string `short:"m" env:"RESEARCH_MODEL" help:"Model name (overrides research.yaml)"`
	LogDir string `short:"l" default:"logs" env:"RESEARCH_LOG_DIR" type:"path" help:"Directory receiving the markdown transcripts"`
}

func main() {
	// Load .env for any additional env vars
	_ = godotenv.Load()

	var cli CLI
	kong.Parse(&cli,
		kong.Name("research"),
		kong.Description("Multi-agent web research with a lead researcher and sub-agents."),
		kong.UsageOnError(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cli, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", core.Kind(err), err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cli CLI, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cli.Model != "" {
		cfg.Model = cli.Model
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := logging.NewLogger(cfg.LoggerConfig(stderr))

	m := newModel(cfg)

	logger.Info("research.start", "provider", cfg.ResolvedProvider(), "model", cfg.Model, "log_dir", cli.LogDir)

	o, err := research.New(m, cli.Task, cli.LogDir, func(o *research.Options) {
		o.KeepLast = cfg.KeepLast
		o.Threshold = cfg.SummarizeThreshold
		o.WebSearch = !cfg.DisableWebSearch
		o.Logger = logger
	})
	if err != nil {
		return err
	}

	t, err := o.Run(ctx)
	if err != nil {
		return err
	}

	result, ok := research.Result(t)
	if !ok {
		return &core.AgentWorkflowError{Reason: "orchestrator terminated without correct tool call"}
	}

	logger.Info("research.done", "messages", len(t))

	_, err = fmt.Fprintln(stdout, result)

	return err
}

// newModel builds the backend selected by the configuration.
func newModel(cfg *config.Config) model.Model {
	if cfg.ResolvedProvider() == config.ProviderAnthropic {
		return anthropic.NewModel(func(o *anthropic.Options) {
			o.Model = anthropicsdk.Model(cfg.Model)
			o.Temperature = cfg.Temperature
			o.MaxTokens = cfg.MaxTokens
			o.BaseURL = cfg.BaseURL
		})
	}

	return openai.NewModel(func(o *openai.Options) {
		o.Model = cfg.Model
		o.Temperature = cfg.Temperature
		o.MaxCompletionTokens = cfg.MaxTokens
		o.BaseURL = cfg.BaseURL
	})
}
