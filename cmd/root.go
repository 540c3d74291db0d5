package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/lexarg/internal/config"
	"github.com/zjrosen/lexarg/internal/log"
	"github.com/zjrosen/lexarg/internal/tracing"
)

var (
	version = "dev"
	cfgFile string
	cfg     config.Config
	// cfgErr is set when the config file has values of the wrong type.
	cfgErr error
)

var rootCmd = &cobra.Command{
	Use:   "lexarg",
	Short: "Show how a command line tokenizes",
	Long: `lexarg classifies command line arguments into short options, long options,
values, the "--" escape and unexpected input, the same way the lexarg Go
package does for programs built on it.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/lexarg/config.yaml)")
}

func initConfig() {
	viper.Reset()
	defaults := config.Defaults()
	viper.SetDefault("output.format", defaults.Output.Format)
	viper.SetDefault("output.color", defaults.Output.Color)
	viper.SetDefault("output.max_width", defaults.Output.MaxWidth)
	viper.SetDefault("log_file", defaults.LogFile)
	viper.SetDefault("log_level", defaults.LogLevel)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.file_path", defaults.Tracing.FilePath)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)
	viper.SetDefault("tracing.service_name", defaults.Tracing.ServiceName)

	viper.SetEnvPrefix("LEXARG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .lexarg/config.yaml (current directory)
		// 2. ~/.config/lexarg/config.yaml (user config)
		if _, err := os.Stat(localConfigPath); err == nil {
			viper.SetConfigFile(localConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "lexarg"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// Running on defaults is fine; `lexarg config init` writes a file.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(rootCmd.ErrOrStderr(), "lexarg: reading config: %v\n", err)
		}
	}

	cfg = config.Config{}
	cfgErr = nil
	if err := viper.Unmarshal(&cfg); err != nil {
		cfgErr = fmt.Errorf("decoding config %s: %w", viper.ConfigFileUsed(), err)
		fmt.Fprintf(rootCmd.ErrOrStderr(), "lexarg: %v\n", cfgErr)
	}
}

const localConfigPath = ".lexarg/config.yaml"

// useConfigFile switches to path for commands that parse their own flags.
func useConfigFile(path string) {
	cfgFile = path
	initConfig()
}

// session is the logging and tracing set up for one command run. The ID
// ties log lines to the spans of the same run.
type session struct {
	id      string
	tracer  *tracing.Provider
	cleanup func()
}

// startSession validates the loaded config, then starts logging and tracing.
func startSession() (*session, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	cleanupLog, err := initLogging(cfg)
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	log.Info(log.CatCLI, "Starting", "run", id, "version", version, "config", viper.ConfigFileUsed())

	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		cleanupLog()
		return nil, fmt.Errorf("starting tracing: %w", err)
	}
	return &session{id: id, tracer: provider, cleanup: cleanupLog}, nil
}

func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if s.tracer.Enabled() {
		if err := s.tracer.Shutdown(ctx); err != nil {
			log.ErrorErr(log.CatTrace, "Failed to flush spans", err)
		}
	}
	s.cleanup()
}

const debugLogFile = "lexarg-debug.log"

// initLogging enables the debug log from log_file or LEXARG_DEBUG.
// LEXARG_DEBUG=stderr logs to stderr, 1/true/file logs to log_file or
// ./lexarg-debug.log, and 0/false mutes a configured log_file.
func initLogging(c config.Config) (func(), error) {
	debug := strings.ToLower(os.Getenv("LEXARG_DEBUG"))
	muted := debug == "0" || debug == "false"
	path := c.LogFile

	var cleanup func()
	switch {
	case debug == "stderr":
		cleanup = log.InitWriter(os.Stderr)
	case path == "" && (debug == "" || muted):
		return func() {}, nil
	default:
		if path == "" {
			path = debugLogFile
		}
		var err error
		if cleanup, err = log.Init(path); err != nil {
			return nil, err
		}
	}
	log.SetMinLevel(log.ParseLevel(c.LogLevel))

	switch {
	case muted:
		log.SetEnabled(false)
	case debug == "", debug == "1", debug == "true", debug == "file", debug == "stderr":
	default:
		log.Warn(log.CatCLI, "Unrecognized LEXARG_DEBUG value, logging to file", "value", debug, "path", path)
	}
	return cleanup, nil
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "lexarg: %v\n", err)
	}
	return err
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
