package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	pinecone "github.com/kailas-cloud/pinecone-go"
	"github.com/kailas-cloud/pinecone-go/filter"
	"github.com/kailas-cloud/pinecone-go/internal/config"
	logpkg "github.com/kailas-cloud/pinecone-go/internal/logger"
	"github.com/kailas-cloud/pinecone-go/internal/version"
	"github.com/kailas-cloud/pinecone-go/result"
)

// clientFactory builds a client from loaded configuration. Tests swap it to
// point the CLI at an in-process server.
type clientFactory func(ctx context.Context, cfg config.Config, log *zap.Logger, extra ...pinecone.Option) (*pinecone.Client, error)

type app struct {
	out       io.Writer
	cfgPath   string
	env       string
	logLevel  string
	newClient clientFactory

	log    *zap.Logger
	client *pinecone.Client
}

func newApp(out io.Writer) *app {
	return &app{out: out, newClient: defaultClient}
}

func defaultClient(ctx context.Context, cfg config.Config, log *zap.Logger, extra ...pinecone.Option) (*pinecone.Client, error) {
	opts := []pinecone.Option{
		pinecone.WithEnvironment(cfg.Pinecone.Environment),
		pinecone.WithAPIKey(cfg.Pinecone.APIKey),
		pinecone.WithEndpoint(cfg.Pinecone.Scheme, cfg.Pinecone.Domain),
		pinecone.WithTimeout(cfg.Pinecone.Timeout()),
		pinecone.WithLogger(log),
	}
	if cfg.Pinecone.RateLimit.RPS > 0 {
		opts = append(opts, pinecone.WithRateLimit(cfg.Pinecone.RateLimit.RPS, cfg.Pinecone.RateLimit.Burst))
	}
	if cfg.Embedding.Enabled() {
		emb, err := pinecone.NewOpenAIEmbedder(pinecone.OpenAIConfig{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
			Provider:   cfg.Embedding.Provider,
			Logger:     log,
		})
		if err != nil {
			return nil, fmt.Errorf("embedder: %w", err)
		}
		opts = append(opts, pinecone.WithEmbedder(emb))
	}
	return pinecone.New(ctx, append(opts, extra...)...)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "pinecone",
		Short: "Command-line client for the Pinecone vector database",
		Long: `pinecone manages indexes, collections and vectors of a Pinecone project.

Connection settings come from config/<env>.yaml or from --config.
Every command prints its answer as JSON on stdout.

Examples:
  pinecone whoami
  pinecone indexes create movies --dimension 1536 --metric cosine
  pinecone vectors query movies --vector '[0.1,0.2]' --filter '{"genre":"drama"}'`,
		Version:           version.String(),
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.SetOut(a.out)

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "path to a YAML config file (overrides --env)")
	root.PersistentFlags().StringVar(&a.env, "env", config.GetEnv(), "config environment name (local, dev, prod)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override: debug, info, warn, error")

	root.AddCommand(
		newWhoAmICmd(a),
		newIndexesCmd(a),
		newCollectionsCmd(a),
		newVectorsCmd(a),
	)
	return root
}

// setup loads configuration and connects before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var (
		cfg config.Config
		err error
	)
	if a.cfgPath != "" {
		cfg, err = config.LoadFile(a.cfgPath)
	} else {
		cfg, err = config.Load(a.env)
	}
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	a.log, err = logpkg.NewLogger("cli", level)
	if err != nil {
		return err
	}

	a.client, err = a.newClient(cmd.Context(), cfg, a.log)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	a.log.Debug("connected",
		zap.String("environment", a.client.Environment()),
		zap.String("project", a.client.Metadata().ProjectName),
	)
	return nil
}

func newWhoAmICmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the project and user behind the API key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printResult(a, a.client.WhoAmI(cmd.Context()))
		},
	}
}

// printResult writes the value of r as indented JSON, or returns the
// failure with any API error detail attached.
func printResult[T any](a *app, r result.Result[T]) error {
	v, err := r.Unwrap()
	if err != nil {
		return describeFailure(r.Err())
	}
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func describeFailure(e *result.Error) error {
	if apiErr, ok := e.APIError(); ok && apiErr.Message != "" {
		return fmt.Errorf("%s: %s (code %d)", e.Kind, apiErr.Message, apiErr.Code)
	}
	return e
}

// parseFilter reads a JSON filter given inline or as a file reference.
// An empty value means no filter.
func parseFilter(raw string) (filter.Expression, error) {
	if raw == "" {
		return filter.None(), nil
	}
	data, err := readArg(raw)
	if err != nil {
		return nil, err
	}
	f, err := filter.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("filter: %w", err)
	}
	return f, nil
}

// readArg returns raw as bytes, or the contents of a file when raw starts
// with "@". "@-" reads stdin.
func readArg(raw string) ([]byte, error) {
	if len(raw) == 0 || raw[0] != '@' {
		return []byte(raw), nil
	}
	name := raw[1:]
	if name == "-" {
		return io.ReadAll(os.Stdin)
	}
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
