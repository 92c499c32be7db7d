package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/iwvelando/loan-estimate/internal/config"
	"github.com/iwvelando/loan-estimate/internal/scenario"
	"github.com/iwvelando/loan-estimate/pkg/constants"
	"github.com/iwvelando/loan-estimate/pkg/output"
	"github.com/iwvelando/loan-estimate/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newEstimateCmd(opts *rootOptions) *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Compute every active scenario in the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(opts.configLocation); errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("configuration file %s not found; start from %s", opts.configLocation, constants.ExampleConfigFile)
			}
			conf, err := config.LoadConfiguration(opts.configLocation)
			if err != nil {
				return fmt.Errorf("failed to load configuration at %s: %w", opts.configLocation, err)
			}

			logger, err := initializeLogger(conf.Logging, opts.logLevel)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			return runEstimate(logger, conf, outputFormat, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&outputFormat, "output-format", "", "type of output override: pretty, csv, json")
	return cmd
}

// runEstimate computes every active scenario and renders the results to w.
func runEstimate(logger *zap.Logger, conf *config.Configuration, outputFormatOverride string, w io.Writer) error {
	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if outputFormatOverride != "" {
		outputFormat = outputFormatOverride
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.runEstimate"),
		)
	}

	engine := scenario.NewEngine(logger)
	active := conf.ActiveScenarios()
	if len(active) == 0 {
		return errors.New("no active scenarios to compute")
	}

	estimates := make([]output.Estimate, 0, len(active))
	for _, s := range active {
		req, err := s.ToRequest(conf.Common)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		batch, err := engine.Build(req)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		estimates = append(estimates, output.Estimate{Name: s.Name, Batch: batch})
	}

	return output.Write(w, outputFormat, estimates)
}
