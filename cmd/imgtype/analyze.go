package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lucas-albers-lz4/imgtype/pkg/analysis"
	"github.com/lucas-albers-lz4/imgtype/pkg/classify"
	"github.com/lucas-albers-lz4/imgtype/pkg/exitcodes"
	"github.com/lucas-albers-lz4/imgtype/pkg/fileutil"
	log "github.com/lucas-albers-lz4/imgtype/pkg/log"
	"github.com/lucas-albers-lz4/imgtype/pkg/tadm"
)

// newAnalyzeCmd creates the analyze command.
func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Classify the docker images of model components",
		Long: `Classify the docker images of the selected components of a deployment model file
and move each component onto its image specific component type.

The updated model is written to --output, or to stdout. With --report a YAML summary
of the changes and skipped components is printed as well: to stdout when the model
goes to a file, otherwise to stderr.`,
		Args: cobra.NoArgs,
		RunE: runAnalyze,
	}

	cmd.Flags().String("model", "", "Path to the deployment model file (YAML or JSON)")
	cmd.Flags().StringSlice("component", []string{}, "Component id to analyze (can be specified multiple times)")
	cmd.Flags().Bool("all", false, "Analyze every component of the model")
	cmd.Flags().StringP("output", "o", "", "Write the updated model to this file instead of stdout")
	cmd.Flags().String("output-format", "", "Format of the model written to stdout (yaml or json)")
	cmd.Flags().Bool("report", false, "Print a YAML report of the analysis")
	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	modelPath, err := requiredString(cmd, "model")
	if err != nil {
		return err
	}
	componentIDs, err := cmd.Flags().GetStringSlice("component")
	if err != nil {
		return flagError("component", err)
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return flagError("all", err)
	}
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return flagError("output", err)
	}
	outputFormat, err := cmd.Flags().GetString("output-format")
	if err != nil {
		return flagError("output-format", err)
	}
	report, err := cmd.Flags().GetBool("report")
	if err != nil {
		return flagError("report", err)
	}

	m, err := loadModel(modelPath)
	if err != nil {
		return err
	}
	if all {
		componentIDs = componentIDs[:0]
		for _, c := range m.Components {
			componentIDs = append(componentIDs, c.ID)
		}
	}

	analyzer := analysis.NewAnalyzer(classify.NewClassifier(appSettings.Identifiers), appSettings.Concurrency)
	result, err := analyzer.Analyze(cmd.Context(), m, componentIDs)
	if err != nil {
		return &exitcodes.ExitCodeError{Code: analysisExitCode(err), Err: err}
	}
	if !result.Changed() {
		log.Info("Model already up to date", "model", modelPath)
	}

	reportOut := cmd.ErrOrStderr()
	if outputPath != "" {
		if err := tadm.Save(AppFs, outputPath, m); err != nil {
			return &exitcodes.ExitCodeError{Code: exitcodes.ExitIOError, Err: err}
		}
		log.Info("Wrote updated model", "path", outputPath)
		reportOut = cmd.OutOrStdout()
	} else {
		format := tadm.FormatYAML
		if outputFormat != "" {
			format = tadm.Format(outputFormat)
		}
		if format != tadm.FormatYAML && format != tadm.FormatJSON {
			return &exitcodes.ExitCodeError{
				Code: exitcodes.ExitInputConfigurationError,
				Err:  fmt.Errorf("unsupported output format %q", outputFormat),
			}
		}
		data, err := tadm.Encode(m, format)
		if err != nil {
			return &exitcodes.ExitCodeError{Code: exitcodes.ExitInternalError, Err: err}
		}
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return &exitcodes.ExitCodeError{Code: exitcodes.ExitIOError, Err: err}
		}
	}

	if report {
		return writeReport(reportOut, result)
	}
	return nil
}

// writeReport prints result as YAML.
func writeReport(w io.Writer, result *analysis.Result) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(result); err != nil {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitIOError, Err: fmt.Errorf("failed to write report: %w", err)}
	}
	if err := enc.Close(); err != nil {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitIOError, Err: fmt.Errorf("failed to write report: %w", err)}
	}
	return nil
}

// loadModel reads a model file, mapping failures to exit codes.
func loadModel(path string) (*tadm.DeploymentModel, error) {
	m, err := tadm.Load(AppFs, path)
	if err != nil {
		if fileutil.IsNotExist(err) {
			return nil, &exitcodes.ExitCodeError{Code: exitcodes.ExitModelNotFound, Err: err}
		}
		return nil, &exitcodes.ExitCodeError{Code: exitcodes.ExitModelParsingError, Err: err}
	}
	log.Debug("Loaded deployment model", "path", path, "types", len(m.Types()), "components", len(m.Components))
	return m, nil
}

// analysisExitCode maps an analysis failure to its exit code.
func analysisExitCode(err error) int {
	switch analysis.KindOf(err) {
	case analysis.KindNoComponentsRequested:
		return exitcodes.ExitNoComponents
	case analysis.KindMissingBaseType:
		return exitcodes.ExitMissingBaseType
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return exitcodes.ExitGeneralRuntimeError
	}
	return exitcodes.ExitInternalError
}

// requiredString returns the value of a string flag that must be set.
func requiredString(cmd *cobra.Command, name string) (string, error) {
	value, err := cmd.Flags().GetString(name)
	if err != nil {
		return "", flagError(name, err)
	}
	if value == "" {
		return "", &exitcodes.ExitCodeError{
			Code: exitcodes.ExitMissingRequiredFlag,
			Err:  fmt.Errorf("required flag \"%s\" not set", name),
		}
	}
	return value, nil
}

func flagError(name string, err error) error {
	return &exitcodes.ExitCodeError{
		Code: exitcodes.ExitInputConfigurationError,
		Err:  fmt.Errorf("failed to get %s flag: %w", name, err),
	}
}
