// Package main provides the CLI entrypoint for pomocoin.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/pomocoin/internal/activity"
	"github.com/verte-zerg/pomocoin/internal/bonus"
	"github.com/verte-zerg/pomocoin/internal/config"
	"github.com/verte-zerg/pomocoin/internal/logger"
	"github.com/verte-zerg/pomocoin/internal/store"
	"github.com/verte-zerg/pomocoin/internal/timer"
	"github.com/verte-zerg/pomocoin/internal/tui"
)

const (
	defaultPreset = 0
	defaultAddr   = "127.0.0.1:8425"
)

var (
	timerPreset        int
	timerBonusInterval int
	timerChime         bool
	timerActivityFile  string
	logDebug           bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "pomocoin",
		Short:         "Pomodoro timer that pays you in coins",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTimerCmd,
	}

	rootCmd.PersistentFlags().BoolVar(&logDebug, "debug", false, "debug logging")
	addTimerFlags(rootCmd)

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPresetCmd())
	rootCmd.AddCommand(newShopCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newActivityCmd())
	rootCmd.AddCommand(newServeCmd())

	return rootCmd
}

func addTimerFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&timerPreset, "preset", defaultPreset, "preset id to load (0 = built-in default)")
	cmd.Flags().IntVar(&timerBonusInterval, "bonus-interval", timer.DefaultBonusInterval, "seconds between bonus awards")
	cmd.Flags().BoolVar(&timerChime, "chime", true, "ring the terminal bell when a phase ends")
	cmd.Flags().StringVar(&timerActivityFile, "activity-file", config.DefaultActivityPath(), "activity signal file to watch")
}

// loadTimerConfig merges the TOML file into the timer flags and validates the result.
func loadTimerConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "preset", &timerPreset, fileCfg.Timer.Preset)
	applyIntConfig(cmd, "bonus-interval", &timerBonusInterval, fileCfg.Timer.BonusInterval)
	applyBoolConfig(cmd, "chime", &timerChime, fileCfg.Timer.Chime)
	applyStringConfig(cmd, "activity-file", &timerActivityFile, fileCfg.Activity.File)
	applyBoolConfig(cmd, "debug", &logDebug, fileCfg.Log.Debug)

	if err := validateTimerFlags(timerPreset, timerBonusInterval); err != nil {
		return config.FileConfig{}, err
	}
	return fileCfg, nil
}

func validateTimerFlags(preset, bonusInterval int) error {
	if preset < 0 {
		return fmt.Errorf("--preset must be >= 0")
	}
	if bonusInterval <= 0 {
		return fmt.Errorf("--bonus-interval must be > 0")
	}
	return nil
}

func sessionOptions() timer.Options {
	opts := timer.Options{BonusInterval: timerBonusInterval}
	if timerChime {
		opts.Chime = ringBell
	}
	return opts
}

func runTimerCmd(cmd *cobra.Command, _ []string) error {
	if _, err := loadTimerConfig(cmd); err != nil {
		return err
	}
	if !isTerminal() {
		return fmt.Errorf("the timer needs an interactive terminal; use `pomocoin serve` to run headless")
	}

	if err := initLogger(false); err != nil {
		return err
	}
	defer closeLogger()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	session := timer.New(st, bonus.NewOracle(), sessionOptions())
	model := tui.NewModel(session, st, int64(timerPreset))
	program := tea.NewProgram(model, tea.WithAltScreen())
	stopWatcher := watchActivity(cmd.Context(), timerActivityFile, tui.ActivityForwarder{Sender: program})
	defer stopWatcher()

	logger.Info("timer started", "preset", timerPreset, "bonusInterval", timerBonusInterval, "activityFile", timerActivityFile)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// watchActivity follows the signal file in the background. The returned func stops the
// watcher and waits for it.
func watchActivity(ctx context.Context, path string, target activity.Setter) func() {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := activity.NewWatcher(path, target).Run(ctx); err != nil {
			logger.Warn("activity watcher stopped", "path", path, "err", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if cerr := st.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

func initLogger(console bool) error {
	if err := logger.Init(logger.Config{Debug: logDebug, Dir: config.DefaultLogDir(), Console: console}); err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	return nil
}

func closeLogger() {
	if err := logger.Close(); err != nil {
		// Best-effort log flush.
		_ = err
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func ringBell() {
	logErrf("\a")
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyStringsConfig(cmd *cobra.Command, name string, target *[]string, value []string) {
	if len(value) == 0 {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# pomocoin configuration
# Uncomment a value to enable it. CLI flags override config values.

[timer]
# preset = %d             # Preset id to load on start (0 = built-in default)
# bonus-interval = %d     # Seconds between bonus awards
# chime = true            # Ring the terminal bell when a phase ends

[serve]
# addr = %q
# cors-origins = ["http://localhost:3000"]

[activity]
# file = %q

[log]
# debug = false
`,
		defaultPreset,
		timer.DefaultBonusInterval,
		defaultAddr,
		config.DefaultActivityPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
