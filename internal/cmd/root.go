// Package cmd provides the command-line interface for Insightful.
// It handles command parsing, configuration loading, and dispatch to the
// capture, query, and service entry points.
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/insightful/insightful/internal/config"
	"github.com/insightful/insightful/internal/logging"
	"github.com/insightful/insightful/internal/storage"
)

var (
	cfgFile   string
	version   string
	buildTime string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "insightful",
	Short: "Capture readable webpage content into a local searchable store",
	Long: `Insightful captures the readable content of webpages and keeps it in a
local SQLite store, one record per URL, for later retrieval and search.

Run "insightful serve" to host the store behind an HTTP API, or use the
capture/search/recent subcommands directly against the database file.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		showConfig, _ := cmd.Flags().GetBool("show-config")
		if showConfig {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return printConfig(cfg)
		}
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets version information for the CLI
func SetVersionInfo(v, bt string) {
	version = v
	buildTime = bt
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./insightful.yml)")
	rootCmd.PersistentFlags().StringP("database", "d", "./insightful.db", "Path to the SQLite database file")
	rootCmd.PersistentFlags().String("server", "", "Base URL of a running insightful daemon (empty = direct database access)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-file", "", "Optional log file path")

	rootCmd.Flags().Bool("show-config", false, "Display current configuration in YAML format and exit")

	bindFlags := []struct {
		viperKey string
		flagName string
	}{
		{"database_path", "database"},
		{"server_url", "server"},
		{"log_level", "log-level"},
		{"log_file", "log-file"},
	}
	for _, bind := range bindFlags {
		if err := viper.BindPFlag(bind.viperKey, rootCmd.PersistentFlags().Lookup(bind.flagName)); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to bind flag %s: %v\n", bind.flagName, err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("insightful")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("INS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the effective configuration from defaults, config
// file, environment, and flags, then installs the logger it describes.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.ParseLevel(cfg.LogLevel)
	logCfg.FilePath = cfg.LogFile
	if err := logging.SetDefault(*logCfg); err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	return cfg, nil
}

// openStore opens the SQLite store named by the configuration.
func openStore(cfg *config.Config) (*storage.SQLiteStore, error) {
	store := storage.NewSQLiteStore(cfg.DatabasePath)
	if err := store.Open(); err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", cfg.DatabasePath, err)
	}
	return store, nil
}

func printConfig(cfg *config.Config) error {
	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal configuration to YAML: %w", err)
	}

	fmt.Printf("# Current Insightful Configuration\n")
	fmt.Printf("# Generated at: %s\n", time.Now().Format(time.RFC3339))
	fmt.Printf("# Configuration file search paths: ./insightful.yml\n")
	fmt.Printf("# Environment variables prefix: INS_\n\n")
	fmt.Print(string(yamlData))
	return nil
}

// formatTimestamp renders a store timestamp (Unix milliseconds) for display.
func formatTimestamp(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04:05")
}
