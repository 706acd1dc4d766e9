package cmd

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"

	"github.com/fatih/color"
	"github.com/qa4sm/qa4sm-reader/internal/contract"
	"github.com/qa4sm/qa4sm-reader/internal/iocache"
	"github.com/qa4sm/qa4sm-reader/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// profilePrefix enables CPU and memory profiling when not empty.
var profilePrefix string

// historyManager is the global load history manager instance.
var historyManager contract.HistoryManager = iocache.Manager

// startProfiling starts CPU and memory profiling if enabled.
func startProfiling() error {
	if profilePrefix == "" {
		return nil
	}

	cpuFile, err := os.Create(profilePrefix + ".cpu.prof")
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuFile); err != nil {
		return fmt.Errorf("could not start CPU profiling: %w", err)
	}

	// Memory profiling will be captured at the end
	_, err = fmt.Fprintf(os.Stderr, "Profiling enabled. CPU profile: %s.cpu.prof, Memory profile: %s.mem.prof\n", profilePrefix, profilePrefix)
	return err
}

// stopProfiling stops profiling and writes memory profile.
func stopProfiling() error {
	if profilePrefix == "" {
		return nil
	}

	pprof.StopCPUProfile()

	memFile, err := os.Create(profilePrefix + ".mem.prof")
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer func() { _ = memFile.Close() }()

	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("could not write memory profile: %w", err)
	}

	_, err = fmt.Fprintf(os.Stderr, "Profiling complete. Use 'go tool pprof %s.cpu.prof' to analyze.\n", profilePrefix)
	return err
}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "qa4sm",
	Short:              "Read QA4SM validation results files.",
	Long:               `qa4sm decodes the metric variables of QA4SM validation results and resolves the datasets they compare.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig sets config file locations, ENV variables and defaults.
func initConfig() {
	setConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("QA4SM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("limit", contract.DefaultLimit)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("history-backend", schema.SQLiteBackend)
	viper.SetDefault("history-db-connect", "")
	viper.SetDefault("color", "yes")
}

// setConfigFile points viper at --config or at .qa4sm.yaml in cwd and home.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".qa4sm") // Name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// loadConfigFile reads the config file if present.
func loadConfigFile() error {
	setConfigFile()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// processConfig unmarshals all resolved values and validates them into cfg.
func processConfig(sourcePath string) error {
	profilePrefix = viper.GetString("profile")
	if err := startProfiling(); err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}

	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	input.SourcePathStr = sourcePath

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}
	color.NoColor = color.NoColor || !cfg.UseColors
	return nil
}

// sharedSetup validates the config of a command reading one results file and
// opens the history store.
func sharedSetup(_ context.Context, cmd *cobra.Command, args []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind %s flags: %w", cmd.Name(), err)
	}
	if err := processConfig(args[0]); err != nil {
		return err
	}
	if err := iocache.InitStores(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetHistoryManager sets the global history manager.
func SetHistoryManager(mgr contract.HistoryManager) {
	historyManager = mgr
}

// StopProfiling stops profiling if enabled.
func StopProfiling() error {
	return stopProfiling()
}
