package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/fenilsonani/nmclean/internal/catalog"
	"github.com/fenilsonani/nmclean/internal/cleaner"
	"github.com/fenilsonani/nmclean/internal/config"
	"github.com/fenilsonani/nmclean/internal/logger"
	"github.com/fenilsonani/nmclean/internal/platform"
	"github.com/fenilsonani/nmclean/internal/progress"
	"github.com/fenilsonani/nmclean/internal/reporter"
	"github.com/fenilsonani/nmclean/internal/ui"
	"github.com/fenilsonani/nmclean/pkg/utils"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	verbose    bool
	workers    int
	logFile    string
	logLevel   string
	minSize    string
	outputFmt  string
	outputFile string
	initConfig bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nmclean [path]",
	Short: "Find and delete node_modules directories",
	Long: `nmclean scans a directory tree for node_modules directories, shows how much
space each one takes and lets you pick which ones to delete.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		root, err := resolveRoot(args)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		builder, err := newBuilder(cfg, progress.NewPrinter(out, cfg.Verbose))
		if err != nil {
			return err
		}

		c, err := builder.Build(root)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		if c.Empty() {
			fmt.Fprintln(out, "No node_modules found.")
			return nil
		}

		clnr, err := newCleaner(cfg)
		if err != nil {
			return err
		}

		// Rescans after a delete run behind the full-screen UI and must not
		// print progress lines.
		rescan := *builder
		rescan.Progress = nil

		logger.Quiet()
		outcome, err := ui.Run(ui.Options{Catalog: c, Builder: &rescan, Cleaner: clnr})
		if errors.Is(err, ui.ErrNoTerminal) {
			return fmt.Errorf("%w (use 'nmclean scan' for a non-interactive report)", err)
		}
		if err != nil {
			return err
		}

		return printOutcome(out, outcome.Report, outcome.ReloadErrors)
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Report node_modules directories without deleting anything",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := reporter.ParseFormat(outputFmt)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		root, err := resolveRoot(args)
		if err != nil {
			return err
		}

		// Progress goes to stderr so machine-readable output stays clean.
		builder, err := newBuilder(cfg, progress.NewPrinter(cmd.ErrOrStderr(), cfg.Verbose))
		if err != nil {
			return err
		}

		c, err := builder.Build(root)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		if outputFile != "" {
			if err := reporter.SaveToFile(c, outputFile, format); err != nil {
				return fmt.Errorf("failed to save report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report saved to: %s\n", outputFile)
			return nil
		}

		if err := reporter.New(cmd.OutOrStdout(), format).Report(c); err != nil {
			return fmt.Errorf("failed to generate report: %w", err)
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display the configuration file in use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		cfgPath := currentConfigPath()

		fmt.Fprintf(out, "Config file: %s\n", cfgPath)

		if initConfig {
			created, err := config.EnsureConfigExists(cfgPath)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintln(out, "Wrote default configuration.")
			} else {
				fmt.Fprintln(out, "Config file already exists.")
			}
			return nil
		}

		if _, err := os.Stat(cfgPath); errors.Is(err, os.ErrNotExist) {
			fmt.Fprintln(out, "Config file does not exist. Using default configuration.")
			fmt.Fprintln(out, "\nTo create one run:")
			fmt.Fprintln(out, "  nmclean config --init")
			return nil
		}

		cfg, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Workers: %d\n", cfg.Workers)
		fmt.Fprintf(out, "Exclude patterns: %v\n", cfg.ExcludePattern)
		fmt.Fprintf(out, "Protected paths: %v\n", cfg.ProtectedPaths)
		fmt.Fprintf(out, "Delete retries: %d\n", cfg.DeleteRetries)
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "print scan timing and debug logs")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "size calculation workers (0 = one per CPU)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "append JSON logs to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&minSize, "min-size", "", "ignore directories smaller than this (e.g. 50MB)")

	// Scan command flags
	scanCmd.Flags().StringVar(&outputFmt, "output", "summary", "output format (summary, table, json, yaml)")
	scanCmd.Flags().StringVar(&outputFile, "file", "", "save report to file")

	// Config command flags
	configCmd.Flags().BoolVar(&initConfig, "init", false, "write the default configuration if none exists")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
}

func currentConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.GetConfigPath()
}

// loadConfig reads the config file and applies command-line overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(currentConfigPath())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	level := cfg.Log.Level
	if cfg.Verbose && !flags.Changed("log-level") {
		level = "debug"
	}
	if err := logger.Init(level, cfg.Log.File); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveRoot(args []string) (string, error) {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", root, err)
	}
	return abs, nil
}

func newBuilder(cfg *config.Config, p *progress.Printer) (*catalog.Builder, error) {
	b := &catalog.Builder{
		Fs:      afero.NewOsFs(),
		Workers: cfg.Workers,
		Exclude: cfg.ExcludePattern,
	}

	if minSize != "" {
		n, err := utils.ParseSize(minSize)
		if err != nil {
			return nil, err
		}
		b.MinSize = n
	}

	if p != nil {
		b.Progress = p
	}
	return b, nil
}

func newCleaner(cfg *config.Config) (*cleaner.Cleaner, error) {
	info, err := platform.GetInfo()
	if err != nil {
		return nil, fmt.Errorf("failed to get platform info: %w", err)
	}

	protected := append([]string{}, cfg.ProtectedPaths...)
	protected = append(protected, info.ProtectedPaths...)

	return cleaner.New(afero.NewOsFs(), cleaner.Options{
		ProtectedPaths: protected,
		RetryDelays:    cleaner.Backoff(cfg.DeleteRetries),
	}), nil
}

// printOutcome writes the per-entry results of the session and fails when
// any delete or rescan did
func printOutcome(w io.Writer, report *cleaner.Report, reloadErrors []error) error {
	if report == nil {
		return nil
	}

	reporter.Deletion(w, report)

	for _, err := range reloadErrors {
		fmt.Fprintf(w, "Rescan failed: %v\n", err)
	}

	if report.Failed > 0 {
		return fmt.Errorf("%d of %d deletions failed", report.Failed, len(report.Results))
	}
	if len(reloadErrors) > 0 {
		return errors.New("rescan after delete failed")
	}
	return nil
}
