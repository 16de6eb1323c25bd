package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucas-albers-lz4/imgtype/pkg/analysis"
	"github.com/lucas-albers-lz4/imgtype/pkg/classify"
	"github.com/lucas-albers-lz4/imgtype/pkg/exitcodes"
	"github.com/lucas-albers-lz4/imgtype/pkg/fileutil"
	"github.com/lucas-albers-lz4/imgtype/pkg/tadm"
	"github.com/lucas-albers-lz4/imgtype/pkg/task"
)

// newTaskCmd creates the task command.
func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Run an analysis task request against a model store",
		Long: `Run one analysis task request against a directory holding one deployment model per
transformation process (<store>/<transformationProcessId>.yaml).

The request is the JSON body of an analysis task message. The task response is
printed as JSON; the exit code is non-zero when the response reports a failure.`,
		Args: cobra.NoArgs,
		RunE: runTask,
	}

	cmd.Flags().String("request", "", "Path to the JSON task request")
	cmd.Flags().String("store", "", "Model store directory (default from store.path)")
	cmd.Flags().String("store-format", string(tadm.FormatYAML), "Document format of the model store (yaml or json)")
	cmd.Flags().String("format-indicator", task.FormatStartRequest, "Format indicator header of the request message")
	return cmd
}

func runTask(cmd *cobra.Command, _ []string) error {
	requestPath, err := requiredString(cmd, "request")
	if err != nil {
		return err
	}
	storeDir, err := cmd.Flags().GetString("store")
	if err != nil {
		return flagError("store", err)
	}
	if storeDir == "" {
		storeDir = appSettings.StorePath
	}
	storeFormat, err := cmd.Flags().GetString("store-format")
	if err != nil {
		return flagError("store-format", err)
	}
	if storeFormat != string(tadm.FormatYAML) && storeFormat != string(tadm.FormatJSON) {
		return &exitcodes.ExitCodeError{
			Code: exitcodes.ExitInputConfigurationError,
			Err:  fmt.Errorf("unsupported store format %q", storeFormat),
		}
	}
	formatIndicator, err := cmd.Flags().GetString("format-indicator")
	if err != nil {
		return flagError("format-indicator", err)
	}

	body, err := fileutil.ReadFile(AppFs, requestPath)
	if err != nil {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitInputConfigurationError, Err: err}
	}

	store := task.NewFileStore(AppFs, storeDir, tadm.Format(storeFormat))
	analyzer := analysis.NewAnalyzer(classify.NewClassifier(appSettings.Identifiers), appSettings.Concurrency)
	receiver := task.NewReceiver(task.NewService(store, analyzer))

	resp := receiver.Receive(cmd.Context(), formatIndicator, body)
	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitInternalError, Err: err}
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), string(out)); err != nil {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitIOError, Err: err}
	}

	if !resp.Success {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitTaskFailed, Err: errors.New(resp.ErrorMessage)}
	}
	return nil
}
