package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/pomocoin/internal/activity"
	"github.com/verte-zerg/pomocoin/internal/bonus"
	"github.com/verte-zerg/pomocoin/internal/config"
)

var activityFile string

func newActivityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Report the current physical activity",
	}
	setCmd := &cobra.Command{
		Use:   "set <activity>",
		Short: "Write the activity signal read by the timer and `pomocoin serve`",
		Long: "Write the activity signal read by the timer and `pomocoin serve`.\n" +
			"Known activities: in_vehicle, on_bicycle, on_foot, still, unknown, tilting, walking, running.",
		Args: cobra.ExactArgs(1),
		RunE: runActivitySetCmd,
	}
	setCmd.Flags().StringVar(&activityFile, "file", config.DefaultActivityPath(), "activity signal file")
	cmd.AddCommand(setCmd)
	return cmd
}

func runActivitySetCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "file", &activityFile, fileCfg.Activity.File)

	a, err := bonus.ParseActivity(args[0])
	if err != nil {
		return err
	}
	if err := activity.WriteSignal(activityFile, a); err != nil {
		return err
	}
	logErrf("activity: %s\n", a)
	return nil
}
