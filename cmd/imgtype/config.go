package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lucas-albers-lz4/imgtype/pkg/classify"
	"github.com/lucas-albers-lz4/imgtype/pkg/exitcodes"
)

// effectiveConfig is the printable form of settings, keyed like the config file.
type effectiveConfig struct {
	ImageIdentifiers classify.Identifiers `yaml:"image-identifiers"`
	Analysis         struct {
		Concurrency int `yaml:"concurrency"`
	} `yaml:"analysis"`
	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`
}

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the effective configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})
	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	var cfg effectiveConfig
	cfg.ImageIdentifiers = appSettings.Identifiers
	cfg.Analysis.Concurrency = appSettings.Concurrency
	cfg.Store.Path = appSettings.StorePath

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitInternalError, Err: fmt.Errorf("failed to render config: %w", err)}
	}
	if _, err := cmd.OutOrStdout().Write(data); err != nil {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitIOError, Err: err}
	}
	return nil
}
