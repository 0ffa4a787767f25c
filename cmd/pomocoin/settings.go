package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change settings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show balance and settings",
		Args:  cobra.NoArgs,
		RunE:  runSettingsShowCmd,
	})
	cmd.AddCommand(&cobra.Command{
		Use:       "coin-warning <on|off>",
		Short:     "Ask before skipping a phase with unbanked points",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE:      runSettingsCoinWarningCmd,
	})
	return cmd
}

func runSettingsShowCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	settings, err := st.GetSettings(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "currency: %d\ncoin-warning: %s\n", settings.Currency, onOff(settings.ShowCoinWarning)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runSettingsCoinWarningCmd(cmd *cobra.Command, args []string) error {
	show, err := parseOnOff(args[0])
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)
	if err := st.UpdateCoinWarning(cmd.Context(), show); err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	logErrf("coin-warning: %s\n", onOff(show))
	return nil
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected on or off, got %q", s)
	}
	return v, nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
