// Package main implements the imgtype command-line interface. It classifies the
// docker images of components in a technology-agnostic deployment model and
// restructures the model's component types accordingly.
//
// The commands are:
//   - analyze: classify components of a model file
//   - task: run one analysis task request against a model store directory
//   - validate: check a model file for structural violations
//   - config show: print the effective configuration
//   - version: print the binary version
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lucas-albers-lz4/imgtype/pkg/classify"
	"github.com/lucas-albers-lz4/imgtype/pkg/exitcodes"
	log "github.com/lucas-albers-lz4/imgtype/pkg/log"
)

// Configuration keys.
const (
	keyDatabaseIdentifiers      = "image-identifiers.database"
	keyMessageBrokerIdentifiers = "image-identifiers.message-broker"
	keyConcurrency              = "analysis.concurrency"
	keyStorePath                = "store.path"

	envPrefix        = "IMGTYPE"
	configName       = ".imgtype"
	defaultStorePath = "models"
)

// Global flag variables
var (
	cfgFile         string
	identifiersFile string
	debugEnabled    bool
	logLevel        string
)

// AppFs defines the filesystem interface to use, allows mocking in tests.
var AppFs = afero.NewOsFs()

// SetFs replaces the current filesystem with the provided one and returns a function to restore it.
func SetFs(newFs afero.Fs) func() {
	oldFs := AppFs
	AppFs = newFs
	return func() { AppFs = oldFs }
}

// settings is the effective configuration of one command run.
type settings struct {
	Identifiers classify.Identifiers
	Concurrency int
	StorePath   string
}

// appSettings is filled by the root command before any subcommand runs.
var appSettings settings

// newRootCmd builds the command tree with fresh flag state.
func newRootCmd() *cobra.Command {
	v := viper.New()

	rootCmd := &cobra.Command{
		Use:   "imgtype",
		Short: "Classify docker images of deployment model components",
		Long: `imgtype inspects the docker image names of components in a technology-agnostic
deployment model, classifies them as database systems, message brokers or generic
software applications, and moves every component onto an image specific component
type below the matching category type.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			configureLogging()
			return initConfig(v)
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.imgtype.yaml)")
	rootCmd.PersistentFlags().StringVar(&identifiersFile, "identifiers", "", "image identifier file overriding the configured tables")
	rootCmd.PersistentFlags().BoolVar(&debugEnabled, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "set log level (debug, info, warn, error)")

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newTaskCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command. It is called by main.main().
func Execute() error {
	if err := newRootCmd().Execute(); err != nil {
		return fmt.Errorf("execute command: %w", err)
	}
	return nil
}

// configureLogging applies --debug and --log-level. --debug wins.
func configureLogging() {
	level := log.LevelInfo
	if debugEnabled {
		level = log.LevelDebug
	} else if logLevel != "" {
		parsed, err := log.ParseLevel(logLevel)
		if err != nil {
			log.Warn("Invalid log level specified, using default", "logLevel", logLevel, "default", level.String(), "error", err)
		} else {
			level = parsed
		}
	}
	log.SetLevel(level)
}

// initConfig reads the config file and IMGTYPE_* environment variables into
// appSettings. A missing default config file is not an error.
func initConfig(v *viper.Viper) error {
	defaults := classify.DefaultIdentifiers()
	v.SetFs(AppFs)
	v.SetDefault(keyDatabaseIdentifiers, defaults.Database)
	v.SetDefault(keyMessageBrokerIdentifiers, defaults.MessageBroker)
	v.SetDefault(keyConcurrency, 0)
	v.SetDefault(keyStorePath, defaultStorePath)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return &exitcodes.ExitCodeError{
				Code: exitcodes.ExitInputConfigurationError,
				Err:  fmt.Errorf("failed to read config: %w", err),
			}
		}
		log.Debug("No config file found, using defaults")
	} else {
		log.Debug("Using config file", "path", v.ConfigFileUsed())
	}

	ids := classify.Identifiers{
		Database:      v.GetStringSlice(keyDatabaseIdentifiers),
		MessageBroker: v.GetStringSlice(keyMessageBrokerIdentifiers),
	}
	if identifiersFile != "" {
		loaded, err := classify.LoadIdentifiers(AppFs, identifiersFile)
		if err != nil {
			return &exitcodes.ExitCodeError{Code: exitcodes.ExitIdentifierConfigError, Err: err}
		}
		ids = loaded
	} else if err := ids.Validate(); err != nil {
		return &exitcodes.ExitCodeError{Code: exitcodes.ExitIdentifierConfigError, Err: err}
	}

	appSettings = settings{
		Identifiers: ids,
		Concurrency: v.GetInt(keyConcurrency),
		StorePath:   v.GetString(keyStorePath),
	}
	return nil
}
