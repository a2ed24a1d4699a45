package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lanternops/avsweep/internal/config"
	"github.com/lanternops/avsweep/internal/logging"
	"github.com/lanternops/avsweep/internal/sweep"
)

var (
	version = "0.1.0"

	cfgFile              string
	flagPattern          string
	flagSkipUninstall    bool
	flagSkipRegistration bool
	flagSkipReboot       bool
	flagDryRun           bool
	flagLogLevel         string
	flagLogFormat        string
)

// scrubPattern is the fixed vendor pattern used by the scrub command.
const scrubPattern = `(?i)symantec|norton`

var rootCmd = &cobra.Command{
	Use:   "avsweep",
	Short: "Endpoint security product removal for Windows fleets",
	Long: `avsweep uninstalls matching MSI-installed security products and scrubs their
stale Security Center registrations so replacement tooling is not blocked by
ghost entries. The built-in Windows security product is never touched.`,
}

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Uninstall matching products and clean their Security Center registrations",
	Run: func(cmd *cobra.Command, args []string) {
		runRemove()
	},
}

var scrubCmd = &cobra.Command{
	Use:   "scrub",
	Short: "Remove stale Symantec/Norton Security Center registrations",
	Run: func(cmd *cobra.Command, args []string) {
		runScrub()
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show what the pattern would select, without removing anything",
	Run: func(cmd *cobra.Command, args []string) {
		runList()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("avsweep v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is avsweep.yaml in ProgramData or cwd)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text or json")
	rootCmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "describe mutating actions instead of performing them")

	removeCmd.Flags().StringVar(&flagPattern, "pattern", "", "display-name pattern (regular expression) of the product(s) to remove")
	removeCmd.Flags().BoolVar(&flagSkipUninstall, "skip-uninstall", false, "skip the product uninstall phase")
	removeCmd.Flags().BoolVar(&flagSkipRegistration, "skip-registration-cleanup", false, "skip the Security Center cleanup phase")
	removeCmd.Flags().BoolVar(&flagSkipReboot, "skip-reboot", false, "never reboot, even when an uninstall requires it")

	listCmd.Flags().StringVar(&flagPattern, "pattern", "", "display-name pattern (regular expression) to match")

	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(scrubCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadOptions merges the config file with command-line overrides. Flags win
// over config values; skip/dry-run flags only ever tighten.
func loadOptions() sweep.Options {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagLogFormat != "" {
		cfg.LogFormat = flagLogFormat
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logging.Init(cfg.LogFormat, cfg.LogLevel, nil)

	pattern := cfg.Pattern
	if flagPattern != "" {
		pattern = flagPattern
	}

	return sweep.Options{
		Pattern:                 pattern,
		SkipUninstall:           cfg.SkipUninstall || flagSkipUninstall,
		SkipRegistrationCleanup: cfg.SkipRegistrationCleanup || flagSkipRegistration,
		SkipReboot:              cfg.SkipReboot || flagSkipReboot,
		DryRun:                  cfg.DryRun || flagDryRun,
	}
}

func runRemove() {
	opts := loadOptions()
	runSweep(opts)
}

func runScrub() {
	opts := loadOptions()
	opts.Pattern = scrubPattern
	opts.SkipUninstall = true
	opts.SkipReboot = true
	runSweep(opts)
}

func runSweep(opts sweep.Options) {
	log := logging.L("cli")

	if err := sweep.Preflight(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	s, err := sweep.New(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log.Info("starting removal",
		"host", sweep.HostSummary(),
		"pattern", opts.Pattern,
		"dryRun", opts.DryRun)

	res := s.Run(context.Background())
	if !res.Success {
		log.Error("one or more removals failed")
		os.Exit(1)
	}
	log.Info("removal finished", "rebootNeeded", res.RebootNeeded)
}

func runList() {
	opts := loadOptions()

	if err := sweep.Preflight(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	s, err := sweep.New(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cands, regs, err := s.Discover()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Printf("Installed products matching %q:\n", opts.Pattern)
	if len(cands) == 0 {
		fmt.Println("  (none)")
	}
	for _, c := range cands {
		fmt.Printf("  %s  %s\n", c.ProductCode, c.DisplayName)
	}

	fmt.Printf("Security Center registrations matching %q:\n", opts.Pattern)
	if len(regs) == 0 {
		fmt.Println("  (none)")
	}
	for _, r := range regs {
		fmt.Printf("  %s  %s\n", r.InstanceGUID, r.DisplayName)
	}
}
