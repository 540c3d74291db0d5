package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/lexarg/internal/config"
	"github.com/zjrosen/lexarg/internal/log"
	"github.com/zjrosen/lexarg/internal/render"
)

var (
	configForce      bool
	configLogCleanup = func() {}
)

// configCmd runs without a session so a config that fails validation can
// still be repaired with "config set".
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the lexarg config file",
	PersistentPreRunE: func(*cobra.Command, []string) error {
		cleanup, err := initLogging(cfg)
		if err != nil {
			return err
		}
		configLogCleanup = cleanup
		return nil
	},
	PersistentPostRun: func(*cobra.Command, []string) {
		configLogCleanup()
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [PATH]",
	Short: "Write the default config file",
	Long: `Write a commented default config to PATH, or to
~/.config/lexarg/config.yaml when PATH is omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if used := viper.ConfigFileUsed(); used != "" {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", used)
		}
		return render.EncodeYAML(cmd.OutOrStdout(), cfg)
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Change an output setting in the config file",
	Long: `Change an output setting, keeping the rest of the file and its comments.

Keys: output.format, output.color, output.max_width`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.DefaultConfigPath()
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !configForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.WriteDefaultConfig(path); err != nil {
		return err
	}
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return err
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	name, ok := strings.CutPrefix(key, "output.")
	if !ok {
		return fmt.Errorf("unknown key %q", key)
	}

	path := viper.ConfigFileUsed()
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if err := config.SetOutputValue(path, name, value); err != nil {
		return err
	}
	log.Info(log.CatConfig, "Saved output setting", "path", path, "key", key)
	_, err := fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", key, path)
	return err
}
