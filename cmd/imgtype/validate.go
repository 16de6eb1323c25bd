package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lucas-albers-lz4/imgtype/pkg/exitcodes"
	"github.com/lucas-albers-lz4/imgtype/pkg/tadm"
)

// newValidateCmd creates the validate command.
func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a deployment model for structural violations",
		Long: `Check a deployment model file for duplicate type names, unknown or cyclic parent
types, parent chains not ending in BaseType, duplicate property keys or operation
names, and components referencing unknown types. Every violation is printed.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}
	cmd.Flags().String("model", "", "Path to the deployment model file (YAML or JSON)")
	return cmd
}

func runValidate(cmd *cobra.Command, _ []string) error {
	modelPath, err := requiredString(cmd, "model")
	if err != nil {
		return err
	}
	m, err := loadModel(modelPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	err = m.Validate()
	var verr *tadm.ValidationError
	if errors.As(err, &verr) {
		for _, v := range verr.Violations {
			fmt.Fprintln(out, v.String())
		}
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitModelInvalid, Err: err}
	}
	if err != nil {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitInternalError, Err: err}
	}

	fmt.Fprintf(out, "%s is valid: %d component types, %d components\n", modelPath, len(m.Types()), len(m.Components))
	return nil
}
