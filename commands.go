package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tanpawarit/agentic-automator/agent/analytics"
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
	configx "github.com/tanpawarit/agentic-automator/pkg/config"
	logx "github.com/tanpawarit/agentic-automator/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func rootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "automator",
		Short:         "Plan and execute multi-step goals with LLM-selected tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configx.SetEnvFile(envFile)
			logCfg, err := configx.New[logx.Config]("LOG")
			if err != nil {
				return fmt.Errorf("load log config: %w", err)
			}
			// Command results go to stdout, so everything but serve logs to stderr.
			logCfg.Output = cmd.ErrOrStderr()
			if cmd.Name() == "serve" {
				logCfg.Output = cmd.OutOrStdout()
			}
			logx.Init(*logCfg)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env", "", "path to a .env file (default ./.env when present)")

	root.AddCommand(serveCmd(), planCmd(), executeCmd(), toolsCmd())
	return root
}

func serveCmd() *cobra.Command {
	var addr string

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			srv, err := a.server()
			if err != nil {
				return err
			}

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start(addr)
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down http server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "listen address (default LISTEN_ADDR)")

	return serve
}

func planCmd() *cobra.Command {
	var maxSteps int

	plan := &cobra.Command{
		Use:   "plan <goal>",
		Short: "Print the plan for a goal without executing it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			p, err := a.orchestrator.Plan(cmd.Context(), strings.Join(args, " "), maxSteps)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), p)
		},
	}
	plan.Flags().IntVar(&maxSteps, "max-steps", contractx.DefaultSteps, "step budget (1-20)")

	return plan
}

func executeCmd() *cobra.Command {
	var maxSteps int

	execute := &cobra.Command{
		Use:   "execute <goal>",
		Short: "Plan and execute a goal, printing the final report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			report, err := a.orchestrator.Execute(ctx, strings.Join(args, " "), maxSteps)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), executeOutput{
				Report: report,
				Stats:  analytics.FromTimeline(report.Timeline),
			})
		},
	}
	execute.Flags().IntVar(&maxSteps, "max-steps", contractx.DefaultSteps, "step budget (1-20)")

	return execute
}

func toolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "List the available tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			for _, name := range a.tools.Names() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

type executeOutput struct {
	Report contractx.ExecutionReport `json:"report"`
	Stats  analytics.Stats           `json:"stats"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
