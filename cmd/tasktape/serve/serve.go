// Package servecmder provides the serve command for running the API server.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/papercomputeco/tasktape/api"
	"github.com/papercomputeco/tasktape/pkg/agent"
	"github.com/papercomputeco/tasktape/pkg/config"
	"github.com/papercomputeco/tasktape/pkg/llm"
	"github.com/papercomputeco/tasktape/pkg/logger"
	"github.com/papercomputeco/tasktape/pkg/store"
	"github.com/papercomputeco/tasktape/pkg/tools"
)

type ServeCommander struct {
	debug  bool
	cfg    *config.Config
	logger *zap.Logger
}

const serveLongDesc string = `Run the Tasktape API server.

Configuration is layered: flags override TASKTAPE_* environment
variables, which override config.toml, which overrides built-in
defaults. With no --sqlite or --postgres flag the server uses an
in-memory SQLite database that is lost on exit.`

const serveShortDesc string = "Run the Tasktape API server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}

			configDir, err := cmd.Flags().GetString("config")
			if err != nil {
				return fmt.Errorf("could not get config flag: %v", err)
			}

			v, err := config.InitViper(configDir)
			if err != nil {
				return err
			}

			bindFlag(v, "api.listen", cmd, "listen")
			bindFlag(v, "storage.sqlite_path", cmd, "sqlite")
			bindFlag(v, "storage.postgres_url", cmd, "postgres")
			bindFlag(v, "agent.provider", cmd, "provider")
			bindFlag(v, "agent.model", cmd, "model")
			bindFlag(v, "agent.base_url", cmd, "base-url")

			cmder.cfg, err = config.Load(v)
			if err != nil {
				return err
			}

			return cmder.run()
		},
	}

	cmd.Flags().StringP("listen", "l", "", "Address for API server to listen on")
	cmd.Flags().StringP("sqlite", "s", "", "Path to SQLite database (default: in-memory)")
	cmd.Flags().String("postgres", "", "PostgreSQL connection URL (takes precedence over --sqlite)")
	cmd.Flags().String("provider", "", "LLM provider (groq, openai, ollama)")
	cmd.Flags().StringP("model", "m", "", "Model name for the agent")
	cmd.Flags().String("base-url", "", "Override the LLM provider base URL")

	return cmd
}

// bindFlag binds a cobra flag to a viper key only when the flag was set, so
// unset flags never mask env or file values.
func bindFlag(v *viper.Viper, key string, cmd *cobra.Command, flag string) {
	if cmd.Flags().Changed(flag) {
		v.Set(key, cmd.Flags().Lookup(flag).Value.String())
	}
}

func (c *ServeCommander) run() error {
	c.logger = logger.NewLogger(c.debug)
	defer c.logger.Sync()

	st, err := c.createStore()
	if err != nil {
		return err
	}
	defer st.Close()

	client, err := llm.NewClient(llm.ClientConfig{
		Provider: c.cfg.Agent.Provider,
		Model:    c.cfg.Agent.Model,
		APIKey:   c.cfg.Agent.APIKey,
		BaseURL:  c.cfg.Agent.BaseURL,
	})
	if err != nil {
		return fmt.Errorf("creating completion client: %w", err)
	}

	registry := tools.NewRegistry(st, c.logger)

	runner := agent.NewRunner(client, registry, agent.RunnerConfig{
		Model:       c.cfg.Agent.Model,
		Temperature: c.cfg.Agent.Temperature,
		MaxTokens:   c.cfg.Agent.MaxTokens,
		TopP:        c.cfg.Agent.TopP,
		Timeout:     c.cfg.Agent.Timeout(),
	}, c.logger)

	apiConfig := api.Config{
		ListenAddr: c.cfg.API.Listen,
	}
	apiServer := api.NewServer(apiConfig, st, runner, c.logger)

	c.logger.Info("starting api server",
		zap.String("api_addr", c.cfg.API.Listen),
		zap.String("provider", c.cfg.Agent.Provider),
		zap.String("model", c.cfg.Agent.Model),
	)

	errChan := make(chan error, 1)

	go func() {
		if err := apiServer.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return apiServer.Shutdown()
	}
}

func (c *ServeCommander) createStore() (*store.Store, error) {
	if c.cfg.Storage.PostgresURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		st, err := store.NewPostgresStore(ctx, c.cfg.Storage.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL store: %w", err)
		}
		c.logger.Info("using PostgreSQL storage")
		return st, nil
	}

	path := c.cfg.Storage.SQLitePath
	if path == "" {
		path = ":memory:"
		c.logger.Info("using in-memory SQLite storage")
	} else {
		c.logger.Info("using SQLite storage", zap.String("path", path))
	}

	st, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create SQLite store: %w", err)
	}
	return st, nil
}
