// Package main is the agentfs entry point. It serves the workspace
// tool API over stdin/stdout for an agent harness to drive.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/kvise/agentfs/internal/config"
	"github.com/kvise/agentfs/internal/server"
)

// version is stamped by the release build.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "agentfs",
		Short:         "Sandboxed workspace file service for LLM agents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var (
		workspaceRoot string
		configPath    string
		logLevel      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tool API over stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logrus.New()
			log.SetOutput(os.Stderr)
			level, err := logrus.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q: %w", logLevel, err)
			}
			log.SetLevel(level)

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			if workspaceRoot == "" {
				workspaceRoot, err = os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to determine working directory: %w", err)
				}
			}

			registry, err := server.NewWorkspaceRegistry(cfg, workspaceRoot)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.WithFields(logrus.Fields{
				"root":    workspaceRoot,
				"version": version,
			}).Info("serving")

			return server.New(registry, log).Serve(ctx, os.Stdin, os.Stdout)
		},
	}

	cmd.Flags().StringVar(&workspaceRoot, "root", "", "workspace root directory (default: current directory)")
	cmd.Flags().StringVar(&configPath, "config", "", "config file path (default: ~/.config/agentfs/config.json)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

func loadConfig(path string) (*config.Config, error) {
	loader := config.NewLoader()
	if path != "" {
		return loader.LoadPath(path)
	}
	return loader.Load()
}
