// Package main provides the CLI entrypoint for the wing analyzer.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aeroclub-nitte/wing-analyzer/cmd/winganalyzer/app"
)

var (
	configPath string

	flagAirfoilsDir string
	flagApplication string
	flagMTOW        float64
	flagMaxSpan     float64
	flagVelocity    float64

	sessionID int64
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "winganalyzer",
		Short:         "Airfoil analysis and wing design tool for RC aircraft",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&flagAirfoilsDir, "airfoils", "", "folder containing airfoil .dat files")
	rootCmd.PersistentFlags().StringVar(&flagApplication, "application", "", "mission profile: payload, endurance or trainer")
	rootCmd.PersistentFlags().Float64Var(&flagMTOW, "mtow", 0, "maximum takeoff weight in kg")
	rootCmd.PersistentFlags().Float64Var(&flagMaxSpan, "max-span", 0, "maximum wingspan in m")
	rootCmd.PersistentFlags().Float64Var(&flagVelocity, "velocity", 0, "design velocity in m/s")

	rootCmd.AddCommand(newRunCmd(), newAnalyzeCmd(), newRankCmd(), newDesignCmd())
	return rootCmd
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the complete pipeline: sweep, rank, design and select",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			return logged(logger, app.Run(cmd.Context(), config, logger))
		},
	}
}

func newAnalyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Sweep airfoils through the aerodynamic surrogate and store the raw data",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			id, err := app.Analyze(cmd.Context(), config, logger)
			if err == nil {
				logger.Info("analysis session stored", slog.Int64("session", id))
			}
			return logged(logger, err)
		},
	}
}

func newRankCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Score and rank airfoils from a stored sweep session",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			return logged(logger, app.Rank(cmd.Context(), config, logger, sessionID))
		},
	}

	cmd.Flags().Int64VarP(&sessionID, "session", "s", 1, "stored sweep session ID")
	return cmd
}

func newDesignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "design",
		Short: "Design, evaluate and select wings from a stored sweep session",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, logger, err := setup(cmd)
			if err != nil {
				return err
			}
			return logged(logger, app.Design(cmd.Context(), config, logger, sessionID))
		},
	}

	cmd.Flags().Int64VarP(&sessionID, "session", "s", 1, "stored sweep session ID")
	return cmd
}

// setup loads the configuration, applies flag overrides and builds the
// logger at the configured level.
func setup(cmd *cobra.Command) (*app.Config, *slog.Logger, error) {
	config := app.NewConfig()
	if configPath != "" {
		loaded, err := app.LoadConfig(configPath)
		if err != nil {
			return nil, nil, err
		}
		config = loaded
	}

	if cmd.Flags().Changed("airfoils") {
		config.Analysis.AirfoilsDir = flagAirfoilsDir
	}
	if cmd.Flags().Changed("application") {
		config.Scoring.Application = flagApplication
	}
	if cmd.Flags().Changed("mtow") {
		config.Design.MTOWKgs = flagMTOW
	}
	if cmd.Flags().Changed("max-span") {
		config.Design.MaxWingspan = flagMaxSpan
	}
	if cmd.Flags().Changed("velocity") {
		config.Design.Velocity = flagVelocity
	}

	if err := config.Validate(); err != nil {
		return nil, nil, err
	}

	level, err := config.LogLevel()
	if err != nil {
		return nil, nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	return config, logger, nil
}

// logged reports the failure through the structured logger while still
// letting cobra exit non-zero.
func logged(logger *slog.Logger, err error) error {
	if err != nil {
		logger.Error(err.Error())
	}
	return err
}
